package ledger

import "fmt"

// Policy fields writable through UpdateLimit.
const (
	FieldMaxBet        = "max_bet"
	FieldDailyWithdraw = "daily_withdraw"
)

// Authorize grants privilege to the primary admin, or to a caller presenting
// its own active Admin Registry record. record may be nil.
func Authorize(stats *Stats, caller string, record *AdminRecord) error {
	if caller != "" && caller == stats.PrimaryAdmin {
		return nil
	}

	if record == nil || !record.IsActive || record.Identity != caller {
		return ErrUnauthorized
	}

	if record.Address != AdminAddress(record.Identity) {
		return ErrUnauthorized
	}

	return nil
}

// RequirePrimary allows only the primary admin.
func RequirePrimary(stats *Stats, caller string) error {
	if caller == "" || caller != stats.PrimaryAdmin {
		return ErrUnauthorized
	}

	return nil
}

// AddAdmin creates a new active record for identity. existing is the record
// already stored for identity, if any.
func AddAdmin(stats *Stats, caller, identity string, existing *AdminRecord, now int64) (*AdminRecord, error) {
	err := RequirePrimary(stats, caller)
	if err != nil {
		return nil, err
	}

	if stats.AdminRecords >= MaxAdmins {
		return nil, ErrMaxAdminsReached
	}

	if existing != nil {
		return nil, ErrAdminExists
	}

	stats.AdminRecords++
	stats.AdminCount++

	return &AdminRecord{
		Identity:  identity,
		Address:   AdminAddress(identity),
		IsActive:  true,
		AddedBy:   caller,
		CreatedAt: now,
	}, nil
}

// RemoveAdmin deactivates record. The record is kept; AdminRecords is not
// decremented. The primary admin's record is never removable, whoever asks.
func RemoveAdmin(stats *Stats, caller string, record *AdminRecord) error {
	if record.Identity == stats.PrimaryAdmin {
		return ErrCannotRemovePrimaryAdmin
	}

	err := RequirePrimary(stats, caller)
	if err != nil {
		return err
	}

	if !record.IsActive {
		return ErrAdminInactive
	}

	count, err := Sub(stats.AdminCount, 1)
	if err != nil {
		return fmt.Errorf("admin count: %w", err)
	}

	record.IsActive = false
	stats.AdminCount = count

	return nil
}

// UpdateLimit writes one policy knob.
func UpdateLimit(stats *Stats, field string, value int64) error {
	if value < 0 {
		return ErrInvalidAmount
	}

	switch field {
	case FieldMaxBet:
		stats.MaxBetLamports = value
	case FieldDailyWithdraw:
		stats.DailyWithdrawLimit = value
	default:
		return ErrInvalidField
	}

	return nil
}

// Withdraw pays out the whole pending balance of p, enforcing the rolling
// 24h platform cap and updating both daily views. It returns the amount the
// caller must move from the vault. On error p and stats are unchanged.
func Withdraw(p *Player, stats *Stats, now int64) (int64, error) {
	amount := p.PendingWithdrawal
	if amount <= 0 {
		return 0, ErrNothingToWithdraw
	}

	next := *stats

	if now-next.LastReset > SecondsPerDay {
		next.WithdrawnToday = 0
		next.LastReset = now
	}

	withdrawn, err := Add(next.WithdrawnToday, amount)
	if err != nil {
		return 0, fmt.Errorf("withdrawn today: %w", err)
	}

	if withdrawn > next.DailyWithdrawLimit {
		return 0, ErrDailyLimitReached
	}

	next.WithdrawnToday = withdrawn

	today := DayStart(now)
	if next.DailyWithdrawal.Date == today {
		next.DailyWithdrawal.Amount, err = Add(next.DailyWithdrawal.Amount, amount)
		if err != nil {
			return 0, fmt.Errorf("daily bucket: %w", err)
		}
	} else {
		next.DailyWithdrawal = DailyWithdrawal{Date: today, Amount: amount}
	}

	next.TotalOwed, err = Sub(next.TotalOwed, amount)
	if err != nil {
		return 0, fmt.Errorf("total owed: %w", err)
	}

	next.TotalProfit = next.TotalVolume - next.TotalOwed

	*stats = next
	p.PendingWithdrawal = 0

	return amount, nil
}

package ledger

// Time values in this package are unix seconds.
const (
	SecondsPerDay = 86_400
	MaxAdmins     = 10

	MinChoice = 1
	MaxChoice = 6

	// PayoutMultiplier is the fixed odds paid on a correct guess.
	PayoutMultiplier = 2

	// NoBet is the current_bet sentinel outside the in-flight window.
	NoBet uint8 = 0

	DefaultMaxBet             int64 = 5_000_000_000
	DefaultDailyWithdrawLimit int64 = 15_000_000_000
)

// WagerState is the per-player wager state machine.
type WagerState string

const (
	WagerIdle     WagerState = "idle"
	WagerAwaiting WagerState = "awaiting_resolution"
)

// Player is the per-player wagering state and pending payout balance.
type Player struct {
	Identity string
	Address  string

	State         WagerState
	CurrentBet    uint8
	LastBetAmount int64
	RequestID     string
	RequestedAt   int64

	LastResult        uint8
	PendingWithdrawal int64

	Wins       int64
	Losses     int64
	TotalGames int64
}

// NewPlayer returns an idle, zeroed Player Account for identity.
func NewPlayer(identity string) *Player {
	return &Player{
		Identity: identity,
		Address:  PlayerAddress(identity),
		State:    WagerIdle,
	}
}

// InFlight reports whether a wager is awaiting resolution.
func (p *Player) InFlight() bool {
	return p.State == WagerAwaiting
}

// AdminRecord is one Admin Registry entry. Records are never deleted or
// reassigned; removal flips IsActive.
type AdminRecord struct {
	Identity  string
	Address   string
	IsActive  bool
	AddedBy   string
	CreatedAt int64
}

// DailyWithdrawal is the calendar-day payout bucket.
type DailyWithdrawal struct {
	Date   int64
	Amount int64
}

// Stats is the platform-wide configuration and aggregate singleton.
type Stats struct {
	PrimaryAdmin string

	// AdminCount tracks active admins; AdminRecords counts every record ever
	// created and is the value bounded by MaxAdmins.
	AdminCount   int64
	AdminRecords int64

	TotalBets   int64
	TotalVolume int64
	TotalOwed   int64
	TotalProfit int64
	TotalUsers  int64

	MaxBetLamports     int64
	DailyWithdrawLimit int64

	WithdrawnToday  int64
	LastReset       int64
	DailyWithdrawal DailyWithdrawal
}

// NewStats builds the initial singleton for a platform created at now.
func NewStats(primaryAdmin string, now, maxBet, dailyLimit int64) *Stats {
	return &Stats{
		PrimaryAdmin:       primaryAdmin,
		AdminCount:         1,
		AdminRecords:       1,
		MaxBetLamports:     maxBet,
		DailyWithdrawLimit: dailyLimit,
		LastReset:          now,
		DailyWithdrawal:    DailyWithdrawal{Date: DayStart(now)},
	}
}

// DayStart returns the calendar-day boundary containing now.
func DayStart(now int64) int64 {
	return now / SecondsPerDay * SecondsPerDay
}

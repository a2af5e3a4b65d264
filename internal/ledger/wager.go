package ledger

import "fmt"

// ValidateWager checks the request-phase preconditions of a wager.
func ValidateWager(stats *Stats, player *Player, choice uint8, stake int64) error {
	if choice < MinChoice || choice > MaxChoice {
		return ErrInvalidChoice
	}

	if stake < 0 {
		return ErrInvalidAmount
	}

	if stake > stats.MaxBetLamports {
		return ErrExceedsMaxBet
	}

	if player.InFlight() {
		return ErrWagerInFlight
	}

	return nil
}

// Stage opens the in-flight window on p. Callers validate first.
func (p *Player) Stage(choice uint8, stake int64, requestID string, now int64) {
	p.State = WagerAwaiting
	p.CurrentBet = choice
	p.LastBetAmount = stake
	p.RequestID = requestID
	p.RequestedAt = now
}

// clear closes the in-flight window.
func (p *Player) clear() {
	p.State = WagerIdle
	p.CurrentBet = NoBet
	p.LastBetAmount = 0
	p.RequestID = ""
	p.RequestedAt = 0
}

// Resolve settles the in-flight wager of p against randomness. It books a
// liability on a win and never moves vault funds. On error neither p nor
// stats is modified.
func Resolve(p *Player, stats *Stats, requestID string, randomness [32]byte) (DiceRolled, error) {
	if !p.InFlight() || p.RequestID != requestID {
		return DiceRolled{}, ErrNoBetPlaced
	}

	outcome := RollOutcome(randomness)
	won := outcome == p.CurrentBet

	payout, err := Mul(p.LastBetAmount, PayoutMultiplier)
	if err != nil {
		return DiceRolled{}, fmt.Errorf("payout: %w", err)
	}

	totalGames, err := Add(p.TotalGames, 1)
	if err != nil {
		return DiceRolled{}, fmt.Errorf("total games: %w", err)
	}

	totalBets, err := Add(stats.TotalBets, 1)
	if err != nil {
		return DiceRolled{}, fmt.Errorf("total bets: %w", err)
	}

	totalVolume, err := Add(stats.TotalVolume, p.LastBetAmount)
	if err != nil {
		return DiceRolled{}, fmt.Errorf("total volume: %w", err)
	}

	next := *p
	nextStats := *stats

	next.LastResult = outcome
	next.TotalGames = totalGames
	nextStats.TotalBets = totalBets
	nextStats.TotalVolume = totalVolume

	if won {
		next.Wins, err = Add(p.Wins, 1)
		if err != nil {
			return DiceRolled{}, fmt.Errorf("wins: %w", err)
		}

		next.PendingWithdrawal, err = Add(p.PendingWithdrawal, payout)
		if err != nil {
			return DiceRolled{}, fmt.Errorf("pending withdrawal: %w", err)
		}

		nextStats.TotalOwed, err = Add(stats.TotalOwed, payout)
		if err != nil {
			return DiceRolled{}, fmt.Errorf("total owed: %w", err)
		}
	} else {
		next.Losses, err = Add(p.Losses, 1)
		if err != nil {
			return DiceRolled{}, fmt.Errorf("losses: %w", err)
		}

		payout = 0
	}

	next.clear()

	*p = next
	*stats = nextStats

	return DiceRolled{
		Player:    p.Identity,
		RequestID: requestID,
		Result:    outcome,
		Won:       won,
		Payout:    payout,
	}, nil
}

// Refund cancels an expired in-flight wager and returns the stake owed back
// to the player. Platform aggregates are untouched since the wager never
// resolved.
func Refund(p *Player, now, timeout int64) (int64, error) {
	if !p.InFlight() {
		return 0, ErrNoBetPlaced
	}

	if now-p.RequestedAt < timeout {
		return 0, ErrWagerNotExpired
	}

	stake := p.LastBetAmount
	p.clear()

	return stake, nil
}

package api

import (
	"encoding/hex"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/services/wagering"
)

type playerView struct {
	Identity          string `json:"identity"`
	Address           string `json:"address"`
	State             string `json:"state"`
	CurrentBet        uint8  `json:"current_bet"`
	LastBetAmount     Amount `json:"last_bet_amount"`
	RequestID         string `json:"request_id,omitempty"`
	RequestedAt       int64  `json:"requested_at,omitempty"`
	LastResult        uint8  `json:"last_result"`
	PendingWithdrawal Amount `json:"pending_withdrawal"`
	Wins              int64  `json:"wins"`
	Losses            int64  `json:"losses"`
	TotalGames        int64  `json:"total_games"`
}

func (f amountFormatter) player(p *ledger.Player) playerView {
	return playerView{
		Identity:          p.Identity,
		Address:           p.Address,
		State:             string(p.State),
		CurrentBet:        p.CurrentBet,
		LastBetAmount:     f.amount(p.LastBetAmount),
		RequestID:         p.RequestID,
		RequestedAt:       p.RequestedAt,
		LastResult:        p.LastResult,
		PendingWithdrawal: f.amount(p.PendingWithdrawal),
		Wins:              p.Wins,
		Losses:            p.Losses,
		TotalGames:        p.TotalGames,
	}
}

type dailyView struct {
	Date   int64  `json:"date"`
	Amount Amount `json:"amount"`
}

type statsView struct {
	Address            string    `json:"address"`
	PrimaryAdmin       string    `json:"primary_admin"`
	AdminCount         int64     `json:"admin_count"`
	AdminRecords       int64     `json:"admin_records"`
	TotalBets          int64     `json:"total_bets"`
	TotalVolume        Amount    `json:"total_volume"`
	TotalOwed          Amount    `json:"total_owed"`
	TotalProfit        Amount    `json:"total_profit"`
	TotalUsers         int64     `json:"total_users"`
	MaxBet             Amount    `json:"max_bet"`
	DailyWithdrawLimit Amount    `json:"daily_withdraw_limit"`
	WithdrawnToday     Amount    `json:"withdrawn_today"`
	LastReset          int64     `json:"last_reset"`
	DailyWithdrawal    dailyView `json:"daily_withdrawal"`
}

func (f amountFormatter) stats(s *ledger.Stats) statsView {
	return statsView{
		Address:            ledger.StatsAddress(),
		PrimaryAdmin:       s.PrimaryAdmin,
		AdminCount:         s.AdminCount,
		AdminRecords:       s.AdminRecords,
		TotalBets:          s.TotalBets,
		TotalVolume:        f.amount(s.TotalVolume),
		TotalOwed:          f.amount(s.TotalOwed),
		TotalProfit:        f.amount(s.TotalProfit),
		TotalUsers:         s.TotalUsers,
		MaxBet:             f.amount(s.MaxBetLamports),
		DailyWithdrawLimit: f.amount(s.DailyWithdrawLimit),
		WithdrawnToday:     f.amount(s.WithdrawnToday),
		LastReset:          s.LastReset,
		DailyWithdrawal: dailyView{
			Date:   s.DailyWithdrawal.Date,
			Amount: f.amount(s.DailyWithdrawal.Amount),
		},
	}
}

type adminView struct {
	Identity  string `json:"identity"`
	Address   string `json:"address"`
	IsActive  bool   `json:"is_active"`
	AddedBy   string `json:"added_by"`
	CreatedAt int64  `json:"created_at"`
}

func newAdminView(rec ledger.AdminRecord) adminView {
	return adminView{
		Identity:  rec.Identity,
		Address:   rec.Address,
		IsActive:  rec.IsActive,
		AddedBy:   rec.AddedBy,
		CreatedAt: rec.CreatedAt,
	}
}

type ticketView struct {
	RequestID  string `json:"request_id"`
	Choice     uint8  `json:"choice"`
	Stake      Amount `json:"stake"`
	CallerSeed string `json:"caller_seed"`
}

func (f amountFormatter) ticket(t wagering.Ticket) ticketView {
	return ticketView{
		RequestID:  t.RequestID,
		Choice:     t.Choice,
		Stake:      f.amount(t.Stake),
		CallerSeed: hex.EncodeToString(t.CallerSeed[:]),
	}
}

package api

import (
	"context"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
	"github.com/fastprodman/dicevault/internal/services/treasury"
	"github.com/fastprodman/dicevault/internal/services/wagering"
)

// WagerService is the player-facing surface the handlers call.
type WagerService interface {
	InitializePlatform(ctx context.Context, caller string) (*ledger.Stats, error)
	InitializePlayer(ctx context.Context, caller string) (*ledger.Player, error)
	Play(ctx context.Context, caller string, choice uint8, stake int64, clientSeed []byte) (wagering.Ticket, error)
	Resolve(ctx context.Context, caller, requestID string, randomness [32]byte) error
	Withdraw(ctx context.Context, caller string) (int64, error)
	CancelWager(ctx context.Context, caller string) (int64, error)
	GetPlayer(ctx context.Context, identity string) (*ledger.Player, error)
	GetStats(ctx context.Context) (*ledger.Stats, error)
	VaultBalance(ctx context.Context) (int64, error)
	WalletBalance(ctx context.Context, identity string) (int64, error)
	ListEvents(ctx context.Context, afterID int64, limit int) ([]events.Record, error)
}

// TreasuryService is the privileged surface the handlers call.
type TreasuryService interface {
	AddAdmin(ctx context.Context, caller, identity string) (*ledger.AdminRecord, error)
	RemoveAdmin(ctx context.Context, caller, identity string) error
	Deposit(ctx context.Context, caller treasury.Caller, amount int64) error
	Withdraw(ctx context.Context, caller treasury.Caller, amount int64) error
	UpdateLimit(ctx context.Context, caller treasury.Caller, field string, value int64) (*ledger.Stats, error)
	ListAdmins(ctx context.Context, caller treasury.Caller) ([]ledger.AdminRecord, error)
}

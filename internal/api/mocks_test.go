package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
	"github.com/fastprodman/dicevault/internal/services/treasury"
	"github.com/fastprodman/dicevault/internal/services/wagering"
)

type mockWagers struct {
	mock.Mock
}

func (m *mockWagers) InitializePlatform(ctx context.Context, caller string) (*ledger.Stats, error) {
	args := m.Called(ctx, caller)
	stats, _ := args.Get(0).(*ledger.Stats)
	return stats, args.Error(1)
}

func (m *mockWagers) InitializePlayer(ctx context.Context, caller string) (*ledger.Player, error) {
	args := m.Called(ctx, caller)
	p, _ := args.Get(0).(*ledger.Player)
	return p, args.Error(1)
}

func (m *mockWagers) Play(ctx context.Context, caller string, choice uint8, stake int64, seed []byte) (wagering.Ticket, error) {
	args := m.Called(ctx, caller, choice, stake, seed)
	return args.Get(0).(wagering.Ticket), args.Error(1)
}

func (m *mockWagers) Resolve(ctx context.Context, caller, requestID string, randomness [32]byte) error {
	return m.Called(ctx, caller, requestID, randomness).Error(0)
}

func (m *mockWagers) Withdraw(ctx context.Context, caller string) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWagers) CancelWager(ctx context.Context, caller string) (int64, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWagers) GetPlayer(ctx context.Context, identity string) (*ledger.Player, error) {
	args := m.Called(ctx, identity)
	p, _ := args.Get(0).(*ledger.Player)
	return p, args.Error(1)
}

func (m *mockWagers) GetStats(ctx context.Context) (*ledger.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*ledger.Stats)
	return stats, args.Error(1)
}

func (m *mockWagers) VaultBalance(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWagers) WalletBalance(ctx context.Context, identity string) (int64, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWagers) ListEvents(ctx context.Context, afterID int64, limit int) ([]events.Record, error) {
	args := m.Called(ctx, afterID, limit)
	recs, _ := args.Get(0).([]events.Record)
	return recs, args.Error(1)
}

type mockTreasury struct {
	mock.Mock
}

func (m *mockTreasury) AddAdmin(ctx context.Context, caller, identity string) (*ledger.AdminRecord, error) {
	args := m.Called(ctx, caller, identity)
	rec, _ := args.Get(0).(*ledger.AdminRecord)
	return rec, args.Error(1)
}

func (m *mockTreasury) RemoveAdmin(ctx context.Context, caller, identity string) error {
	return m.Called(ctx, caller, identity).Error(0)
}

func (m *mockTreasury) Deposit(ctx context.Context, caller treasury.Caller, amount int64) error {
	return m.Called(ctx, caller, amount).Error(0)
}

func (m *mockTreasury) Withdraw(ctx context.Context, caller treasury.Caller, amount int64) error {
	return m.Called(ctx, caller, amount).Error(0)
}

func (m *mockTreasury) UpdateLimit(ctx context.Context, caller treasury.Caller, field string, value int64) (*ledger.Stats, error) {
	args := m.Called(ctx, caller, field, value)
	stats, _ := args.Get(0).(*ledger.Stats)
	return stats, args.Error(1)
}

func (m *mockTreasury) ListAdmins(ctx context.Context, caller treasury.Caller) ([]ledger.AdminRecord, error) {
	args := m.Called(ctx, caller)
	recs, _ := args.Get(0).([]ledger.AdminRecord)
	return recs, args.Error(1)
}

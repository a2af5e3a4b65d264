package wagering

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/infra/pgtestutil"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/oracle"
)

const (
	testAdmin  = "admin"
	testOracle = "randomness-oracle"
	testStart  = int64(1_700_000_000)
	testTTL    = 10 * time.Minute
)

type fakeOracle struct {
	mu   sync.Mutex
	reqs []oracle.Request
	err  error
}

func (f *fakeOracle) Submit(_ context.Context, req oracle.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.reqs = append(f.reqs, req)

	return nil
}

func (f *fakeOracle) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

func (f *fakeOracle) submitted() []oracle.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]oracle.Request(nil), f.reqs...)
}

type harness struct {
	svc    *Service
	db     *sql.DB
	oracle *fakeOracle
	bus    *eventbus.Bus
	clock  *atomic.Int64
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	h := &harness{
		db:     db,
		oracle: &fakeOracle{},
		bus:    eventbus.NewBus(),
		clock:  &atomic.Int64{},
	}
	h.clock.Store(testStart)

	h.svc = New(db, h.bus, h.oracle, Config{
		MaxBet:             ledger.DefaultMaxBet,
		DailyWithdrawLimit: ledger.DefaultDailyWithdrawLimit,
		WagerTimeout:       testTTL,
		OracleIdentity:     testOracle,
	}, WithClock(func() time.Time { return time.Unix(h.clock.Load(), 0) }))

	_, err := h.svc.InitializePlatform(t.Context(), testAdmin)
	require.NoError(t, err)

	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock.Add(int64(d.Seconds()))
}

func (h *harness) player(t *testing.T, identity string, funds int64) {
	t.Helper()

	_, err := h.svc.InitializePlayer(t.Context(), identity)
	require.NoError(t, err)

	h.setBalance(t, ledger.WalletAddress(identity), funds)
}

func (h *harness) setBalance(t *testing.T, address string, balance int64) {
	t.Helper()

	_, err := h.db.Exec(`UPDATE accounts SET balance = $2 WHERE address = $1`, address, balance)
	require.NoError(t, err)
}

func (h *harness) balance(t *testing.T, address string) int64 {
	t.Helper()

	var b int64
	require.NoError(t, h.db.QueryRow(`SELECT balance FROM accounts WHERE address = $1`, address).Scan(&b))

	return b
}

func rollOf(outcome uint8) [32]byte {
	var r [32]byte
	r[0] = outcome - 1

	return r
}

func TestInitialize_Idempotency(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()

	_, err := h.svc.InitializePlatform(ctx, "someone")
	require.ErrorIs(t, err, ledger.ErrAlreadyInitialized)

	first, err := h.svc.InitializePlayer(ctx, "alice")
	require.NoError(t, err)
	again, err := h.svc.InitializePlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	stats, err := h.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, testAdmin, stats.PrimaryAdmin)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.AdminCount)

	vault, err := h.svc.VaultBalance(ctx)
	require.NoError(t, err)
	assert.Zero(t, vault)
}

func TestInitializePlayer_NeedsPlatform(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	svc := New(db, nil, &fakeOracle{}, Config{OracleIdentity: testOracle})

	_, err := svc.InitializePlayer(t.Context(), "alice")
	require.ErrorIs(t, err, ledger.ErrPlatformNotReady)
}

func TestPlayResolveWithdraw(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "alice", 10_000_000)

	ticket, err := h.svc.Play(ctx, "alice", 3, 1_000_000, []byte("lucky"))
	require.NoError(t, err)
	assert.Equal(t, ledger.CallerSeed("alice", ticket.RequestID, []byte("lucky")), ticket.CallerSeed)

	assert.Equal(t, int64(9_000_000), h.balance(t, ledger.WalletAddress("alice")))
	assert.Equal(t, int64(1_000_000), h.balance(t, ledger.VaultAddress()))

	subs := h.oracle.submitted()
	require.Len(t, subs, 1)
	assert.Equal(t, ticket.RequestID, subs[0].ID)

	p, err := h.svc.GetPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.InFlight())
	assert.Equal(t, uint8(3), p.CurrentBet)

	err = h.svc.Resolve(ctx, "alice", ticket.RequestID, rollOf(3))
	require.ErrorIs(t, err, ledger.ErrUnauthorized)

	require.NoError(t, h.svc.Resolve(ctx, testOracle, ticket.RequestID, rollOf(3)))

	err = h.svc.Resolve(ctx, testOracle, ticket.RequestID, rollOf(3))
	require.ErrorIs(t, err, ledger.ErrRequestNotPending)

	p, err = h.svc.GetPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, p.InFlight())
	assert.Equal(t, int64(2_000_000), p.PendingWithdrawal)
	assert.Equal(t, int64(1), p.Wins)

	stats, err := h.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), stats.TotalOwed)
	assert.Equal(t, int64(1_000_000), stats.TotalVolume)

	// The vault only holds the stake; the payout needs a deposit first.
	_, err = h.svc.Withdraw(ctx, "alice")
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	h.setBalance(t, ledger.VaultAddress(), 5_000_000)

	amount, err := h.svc.Withdraw(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), amount)
	assert.Equal(t, int64(11_000_000), h.balance(t, ledger.WalletAddress("alice")))
	assert.Equal(t, int64(3_000_000), h.balance(t, ledger.VaultAddress()))

	_, err = h.svc.Withdraw(ctx, "alice")
	require.ErrorIs(t, err, ledger.ErrNothingToWithdraw)

	stats, err = h.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOwed)
	assert.Equal(t, int64(2_000_000), stats.WithdrawnToday)
}

func TestPlay_Loss(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "bob", 1_000)

	ticket, err := h.svc.Play(ctx, "bob", 6, 1_000, nil)
	require.NoError(t, err)
	require.NoError(t, h.svc.Resolve(ctx, testOracle, ticket.RequestID, rollOf(1)))

	p, err := h.svc.GetPlayer(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Losses)
	assert.Zero(t, p.PendingWithdrawal)
	assert.Equal(t, uint8(1), p.LastResult)
	assert.Equal(t, int64(1_000), h.balance(t, ledger.VaultAddress()))
}

func TestPlay_Rejections(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "carol", 500)

	_, err := h.svc.Play(ctx, "nobody", 1, 1, nil)
	require.ErrorIs(t, err, ledger.ErrPlayerNotFound)

	_, err = h.svc.Play(ctx, "carol", 7, 1, nil)
	require.ErrorIs(t, err, ledger.ErrInvalidChoice)

	_, err = h.svc.Play(ctx, "carol", 1, ledger.DefaultMaxBet+1, nil)
	require.ErrorIs(t, err, ledger.ErrExceedsMaxBet)

	_, err = h.svc.Play(ctx, "carol", 1, 1, make([]byte, 33))
	require.ErrorIs(t, err, ledger.ErrInvalidSeed)

	_, err = h.svc.Play(ctx, "carol", 1, 501, nil)
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	// The failed transfer rolled the staged wager back too.
	p, err := h.svc.GetPlayer(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, p.InFlight())
	assert.Equal(t, int64(500), h.balance(t, ledger.WalletAddress("carol")))

	_, err = h.svc.Play(ctx, "carol", 1, 100, nil)
	require.NoError(t, err)

	_, err = h.svc.Play(ctx, "carol", 2, 100, nil)
	require.ErrorIs(t, err, ledger.ErrWagerInFlight)

	assert.Len(t, h.oracle.submitted(), 1)
}

func TestCancelWager(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "alice", 1_000)

	_, err := h.svc.CancelWager(ctx, "alice")
	require.ErrorIs(t, err, ledger.ErrNoBetPlaced)

	ticket, err := h.svc.Play(ctx, "alice", 2, 400, nil)
	require.NoError(t, err)

	_, err = h.svc.CancelWager(ctx, "alice")
	require.ErrorIs(t, err, ledger.ErrWagerNotExpired)

	h.advance(testTTL)

	amount, err := h.svc.CancelWager(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(400), amount)
	assert.Equal(t, int64(1_000), h.balance(t, ledger.WalletAddress("alice")))
	assert.Zero(t, h.balance(t, ledger.VaultAddress()))

	err = h.svc.Resolve(ctx, testOracle, ticket.RequestID, rollOf(2))
	require.ErrorIs(t, err, ledger.ErrRequestNotPending)

	stats, err := h.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBets)
	assert.Zero(t, stats.TotalVolume)
}

func TestRefundExpired(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "alice", 1_000)
	h.player(t, "bob", 1_000)

	_, err := h.svc.Play(ctx, "alice", 1, 100, nil)
	require.NoError(t, err)

	h.advance(time.Minute)

	resolved, err := h.svc.Play(ctx, "bob", 1, 200, nil)
	require.NoError(t, err)
	require.NoError(t, h.svc.Resolve(ctx, testOracle, resolved.RequestID, rollOf(4)))

	n, err := h.svc.RefundExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	h.advance(testTTL)

	n, err = h.svc.RefundExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1_000), h.balance(t, ledger.WalletAddress("alice")))
	assert.Equal(t, int64(800), h.balance(t, ledger.WalletAddress("bob")))

	n, err = h.svc.RefundExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRefundExpired_SkipsWhatTheVaultCannotCover(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "alice", 1_000)
	h.player(t, "bob", 1_000)

	_, err := h.svc.Play(ctx, "alice", 2, 500, nil)
	require.NoError(t, err)

	h.advance(time.Minute)

	_, err = h.svc.Play(ctx, "bob", 2, 100, nil)
	require.NoError(t, err)

	// Treasury drained the vault below the oldest stake.
	h.setBalance(t, ledger.VaultAddress(), 150)
	h.advance(testTTL)

	n, err := h.svc.RefundExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1_000), h.balance(t, ledger.WalletAddress("bob")))
	assert.Equal(t, int64(500), h.balance(t, ledger.WalletAddress("alice")))
	assert.Equal(t, int64(50), h.balance(t, ledger.VaultAddress()))

	alice, err := h.svc.GetPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, alice.InFlight())

	h.setBalance(t, ledger.VaultAddress(), 500)

	n, err = h.svc.RefundExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1_000), h.balance(t, ledger.WalletAddress("alice")))
}

func TestResubmitPending(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()
	h.player(t, "alice", 1_000)

	h.oracle.fail(assert.AnError)

	ticket, err := h.svc.Play(ctx, "alice", 5, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, h.oracle.submitted())

	n, err := h.svc.ResubmitPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, h.oracle.submitted())

	h.oracle.fail(nil)

	n, err = h.svc.ResubmitPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, h.oracle.submitted(), 1)
	assert.Equal(t, ticket.RequestID, h.oracle.submitted()[0].ID)

	n, err = h.svc.ResubmitPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEvents_JournaledAndDelivered(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := t.Context()

	var (
		mu  sync.Mutex
		got []ledger.EventType
	)
	h.bus.SubscribeAll(func(_ context.Context, msg eventbus.Message) {
		mu.Lock()
		defer mu.Unlock()

		got = append(got, msg.Type)
	})

	h.player(t, "alice", 1_000)

	ticket, err := h.svc.Play(ctx, "alice", 2, 100, nil)
	require.NoError(t, err)
	require.NoError(t, h.svc.Resolve(ctx, testOracle, ticket.RequestID, rollOf(2)))

	// Rolled back, so neither journaled nor delivered.
	_, err = h.svc.Play(ctx, "alice", 2, 10_000, nil)
	require.Error(t, err)

	h.bus.Wait()

	// Batches from separate commits may interleave; each arrives once.
	mu.Lock()
	assert.ElementsMatch(t, []ledger.EventType{ledger.EventWagerPlaced, ledger.EventDiceRolled}, got)
	mu.Unlock()

	recs, err := h.svc.ListEvents(ctx, 0, 0)
	require.NoError(t, err)

	types := make([]ledger.EventType, 0, len(recs))
	for _, r := range recs {
		types = append(types, r.Type)
	}
	assert.Equal(t, []ledger.EventType{
		ledger.EventAdminAdded,
		ledger.EventWagerPlaced,
		ledger.EventDiceRolled,
	}, types)

	after, err := h.svc.ListEvents(ctx, recs[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, ledger.EventDiceRolled, after[0].Type)
}

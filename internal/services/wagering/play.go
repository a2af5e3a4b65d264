package wagering

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/oracle"
	"github.com/fastprodman/dicevault/internal/repos/requests"
)

const maxClientSeed = 32

// Ticket identifies a wager awaiting resolution.
type Ticket struct {
	RequestID  string
	Choice     uint8
	Stake      int64
	CallerSeed [32]byte
}

// Play stakes on choice. The stake moves from the player's wallet into the
// vault and a randomness request is recorded in the same transaction; the
// request is handed to the oracle after commit. A failed hand-off is left to
// ResubmitPending.
func (s *Service) Play(ctx context.Context, caller string, choice uint8, stake int64, clientSeed []byte) (Ticket, error) {
	if caller == "" {
		return Ticket{}, ledger.ErrUnauthorized
	}

	if len(clientSeed) > maxClientSeed {
		return Ticket{}, ledger.ErrInvalidSeed
	}

	requestID := uuid.NewString()
	now := s.unixNow()
	wallet := ledger.WalletAddress(caller)
	vault := ledger.VaultAddress()

	req := requests.Request{
		ID:             requestID,
		PlayerIdentity: caller,
		PlayerAddress:  ledger.PlayerAddress(caller),
		Seed:           ledger.CallerSeed(caller, requestID, clientSeed),
		Status:         requests.StatusPending,
		CreatedAt:      now,
	}

	tbus := s.txBus()

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Share(tx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		player, err := s.players.Lock(tx, req.PlayerAddress)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		err = ledger.ValidateWager(stats, player, choice, stake)
		if err != nil {
			return err
		}

		player.Stage(choice, stake, requestID, now)

		err = s.players.Update(tx, player)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}

		err = s.transfer(tx, wallet, vault, stake)
		if err != nil {
			return fmt.Errorf("collect stake: %w", err)
		}

		err = s.requests.Insert(tx, req)
		if err != nil {
			return fmt.Errorf("insert request: %w", err)
		}

		return tbus.Record(tx, ledger.WagerPlaced{
			Player:    caller,
			RequestID: requestID,
			Choice:    choice,
			Stake:     stake,
		})
	}, tbus)
	if err != nil {
		return Ticket{}, fmt.Errorf("play: %w", err)
	}

	s.submit(ctx, req)

	return Ticket{
		RequestID:  requestID,
		Choice:     choice,
		Stake:      stake,
		CallerSeed: req.Seed,
	}, nil
}

// transfer moves amount between two accounts locked in address order.
func (s *Service) transfer(tx *sql.Tx, from, to string, amount int64) error {
	_, err := s.accounts.LockMany(tx, from, to)
	if err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}

	err = s.accounts.DecreaseBalance(tx, from, amount)
	if err != nil {
		return fmt.Errorf("debit: %w", err)
	}

	err = s.accounts.IncreaseBalance(tx, to, amount)
	if err != nil {
		return fmt.Errorf("credit: %w", err)
	}

	return nil
}

// submit hands req to the oracle and records whether it got there.
func (s *Service) submit(ctx context.Context, req requests.Request) {
	l := log.WithField("requestID", req.ID)

	submitErr := s.oracle.Submit(ctx, oracle.Request{
		ID:         req.ID,
		Player:     req.PlayerIdentity,
		CallerSeed: req.Seed,
	})
	if submitErr != nil {
		l.WithError(submitErr).Warn("oracle submit failed, will retry")
	}

	err := s.requests.MarkSubmitted(context.WithoutCancel(ctx), req.ID, submitErr == nil)
	if err != nil {
		l.WithError(err).Error("mark request submitted")
	}
}

package wagering

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/requests"
)

// CancelWager refunds the caller's in-flight wager once it has waited longer
// than the configured timeout.
func (s *Service) CancelWager(ctx context.Context, caller string) (int64, error) {
	if caller == "" {
		return 0, ledger.ErrUnauthorized
	}

	// Unlocked read to learn the request id; refund re-checks under lock.
	player, err := s.players.Get(ctx, caller)
	if err != nil {
		return 0, fmt.Errorf("cancel wager: %w", err)
	}

	if !player.InFlight() {
		return 0, fmt.Errorf("cancel wager: %w", ledger.ErrNoBetPlaced)
	}

	amount, err := s.refund(ctx, player.RequestID)
	if err != nil {
		return 0, fmt.Errorf("cancel wager: %w", err)
	}

	return amount, nil
}

// RefundExpired refunds every pending wager past the timeout and reports
// how many were refunded. Wagers resolved concurrently are skipped.
func (s *Service) RefundExpired(ctx context.Context) (int, error) {
	cutoff := s.unixNow() - int64(s.cfg.WagerTimeout.Seconds())

	expired, err := s.requests.ListExpired(ctx, cutoff, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list expired: %w", err)
	}

	refunded := 0
	for _, req := range expired {
		_, err := s.refund(ctx, req.ID)

		switch {
		case err == nil:
			refunded++
		case errors.Is(err, ledger.ErrRequestNotPending),
			errors.Is(err, ledger.ErrNoBetPlaced),
			errors.Is(err, ledger.ErrWagerNotExpired):
			log.WithField("requestID", req.ID).Debug("skip refund, wager settled meanwhile")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			// Vault short for this stake; smaller refunds behind it may still fit.
			log.WithError(err).WithField("requestID", req.ID).Warn("skip refund, vault underfunded")
		default:
			return refunded, fmt.Errorf("refund %s: %w", req.ID, err)
		}
	}

	return refunded, nil
}

func (s *Service) refund(ctx context.Context, requestID string) (int64, error) {
	var (
		amount int64
		player string
	)

	tbus := s.txBus()

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		req, err := s.requests.Lock(tx, requestID)
		if err != nil {
			return fmt.Errorf("lock request: %w", err)
		}

		if req.Status != requests.StatusPending {
			return ledger.ErrRequestNotPending
		}

		p, err := s.players.Lock(tx, req.PlayerAddress)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		if p.RequestID != requestID {
			return ledger.ErrNoBetPlaced
		}

		now := s.unixNow()

		amount, err = ledger.Refund(p, now, int64(s.cfg.WagerTimeout.Seconds()))
		if err != nil {
			return err
		}

		err = s.transfer(tx, ledger.VaultAddress(), ledger.WalletAddress(p.Identity), amount)
		if err != nil {
			return fmt.Errorf("return stake: %w", err)
		}

		err = s.players.Update(tx, p)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}

		err = s.requests.Settle(tx, requestID, requests.StatusRefunded, nil, now)
		if err != nil {
			return fmt.Errorf("settle request: %w", err)
		}

		player = p.Identity

		return tbus.Record(tx, ledger.WagerRefunded{
			Player:    p.Identity,
			RequestID: requestID,
			Amount:    amount,
		})
	}, tbus)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"requestID": requestID,
		"player":    player,
		"amount":    amount,
	}).Info("wager refunded")

	return amount, nil
}

// ResubmitPending hands unsubmitted randomness requests to the oracle again
// and reports how many were attempted.
func (s *Service) ResubmitPending(ctx context.Context) (int, error) {
	pending, err := s.requests.ListUnsubmitted(ctx, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("list unsubmitted: %w", err)
	}

	for _, req := range pending {
		s.submit(ctx, req)
	}

	return len(pending), nil
}

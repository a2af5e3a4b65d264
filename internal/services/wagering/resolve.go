package wagering

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/requests"
)

// Resolve is the oracle callback. It settles the wager bound to requestID:
// a win books 2x the stake as a pending payout, a loss leaves the stake in
// the vault. No vault funds move here.
func (s *Service) Resolve(ctx context.Context, caller, requestID string, randomness [32]byte) error {
	if caller == "" || caller != s.cfg.OracleIdentity {
		return ledger.ErrUnauthorized
	}

	var rolled ledger.DiceRolled

	tbus := s.txBus()

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Lock(tx)
		if err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		req, err := s.requests.Lock(tx, requestID)
		if err != nil {
			return fmt.Errorf("lock request: %w", err)
		}

		if req.Status != requests.StatusPending {
			return ledger.ErrRequestNotPending
		}

		player, err := s.players.Lock(tx, req.PlayerAddress)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		rolled, err = ledger.Resolve(player, stats, requestID, randomness)
		if err != nil {
			return err
		}

		err = s.players.Update(tx, player)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}

		err = s.platform.Update(tx, stats)
		if err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		err = s.requests.Settle(tx, requestID, requests.StatusResolved, randomness[:], s.unixNow())
		if err != nil {
			return fmt.Errorf("settle request: %w", err)
		}

		return tbus.Record(tx, rolled)
	}, tbus)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", requestID, err)
	}

	log.WithFields(log.Fields{
		"requestID": requestID,
		"player":    rolled.Player,
		"result":    rolled.Result,
		"won":       rolled.Won,
	}).Info("wager resolved")

	return nil
}

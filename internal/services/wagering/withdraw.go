package wagering

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
)

// Withdraw pays the caller's whole pending balance from the vault into the
// caller's wallet, subject to the platform's rolling 24h cap.
func (s *Service) Withdraw(ctx context.Context, caller string) (int64, error) {
	if caller == "" {
		return 0, ledger.ErrUnauthorized
	}

	var amount int64

	tbus := s.txBus()

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Lock(tx)
		if err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		player, err := s.players.Lock(tx, ledger.PlayerAddress(caller))
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}

		amount, err = ledger.Withdraw(player, stats, s.unixNow())
		if err != nil {
			return err
		}

		err = s.transfer(tx, ledger.VaultAddress(), ledger.WalletAddress(caller), amount)
		if err != nil {
			return fmt.Errorf("pay out: %w", err)
		}

		err = s.players.Update(tx, player)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}

		err = s.platform.Update(tx, stats)
		if err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		return tbus.Record(tx, ledger.PayoutWithdrawn{Player: caller, Amount: amount})
	}, tbus)
	if err != nil {
		return 0, fmt.Errorf("withdraw: %w", err)
	}

	log.WithFields(log.Fields{"player": caller, "amount": amount}).Info("payout withdrawn")

	return amount, nil
}

package treasury

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
)

// Deposit moves amount from the caller's wallet into the vault.
func (s *Service) Deposit(ctx context.Context, caller Caller, amount int64) error {
	if amount <= 0 {
		return ledger.ErrInvalidAmount
	}

	wallet := ledger.WalletAddress(caller.Identity)

	err := s.moveFunds(ctx, caller, wallet, ledger.VaultAddress(), amount,
		ledger.AdminDeposit{Admin: caller.Identity, Amount: amount})
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	log.WithFields(log.Fields{"admin": caller.Identity, "amount": amount}).Info("vault deposit")

	return nil
}

// Withdraw moves amount from the vault into the caller's wallet. Pending
// player payouts do not reserve vault funds.
func (s *Service) Withdraw(ctx context.Context, caller Caller, amount int64) error {
	if amount <= 0 {
		return ledger.ErrInvalidAmount
	}

	wallet := ledger.WalletAddress(caller.Identity)

	err := s.moveFunds(ctx, caller, ledger.VaultAddress(), wallet, amount,
		ledger.AdminWithdrawal{Admin: caller.Identity, Amount: amount})
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}

	log.WithFields(log.Fields{"admin": caller.Identity, "amount": amount}).Info("vault withdrawal")

	return nil
}

func (s *Service) moveFunds(ctx context.Context, caller Caller, from, to string, amount int64, ev ledger.Event) error {
	tbus := eventbus.NewTransactionalBus(s.bus, s.events)

	return pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Share(tx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		err = s.authorize(tx, stats, caller)
		if err != nil {
			return err
		}

		err = s.accounts.Ensure(tx, ledger.WalletAddress(caller.Identity), caller.Identity)
		if err != nil {
			return fmt.Errorf("ensure wallet: %w", err)
		}

		_, err = s.accounts.LockMany(tx, from, to)
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

		return tbus.Record(tx, ev)
	}, tbus)
}

// UpdateLimit sets one policy field.
func (s *Service) UpdateLimit(ctx context.Context, caller Caller, field string, value int64) (*ledger.Stats, error) {
	var stats *ledger.Stats

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error

		stats, err = s.platform.Lock(tx)
		if err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		err = s.authorize(tx, stats, caller)
		if err != nil {
			return err
		}

		err = ledger.UpdateLimit(stats, field, value)
		if err != nil {
			return err
		}

		return s.platform.Update(tx, stats)
	})
	if err != nil {
		return nil, fmt.Errorf("update limit: %w", err)
	}

	log.WithFields(log.Fields{
		"admin": caller.Identity,
		"field": field,
		"value": value,
	}).Info("limit updated")

	return stats, nil
}

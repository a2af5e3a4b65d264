package wagering

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
	log "github.com/sirupsen/logrus"
)

// vaultOwner labels the treasury row in the accounts table.
const vaultOwner = "platform"

// InitializePlatform creates the stats singleton with caller as primary
// admin, the primary admin's registry record and the empty vault.
func (s *Service) InitializePlatform(ctx context.Context, caller string) (*ledger.Stats, error) {
	if caller == "" {
		return nil, ledger.ErrUnauthorized
	}

	now := s.unixNow()
	stats := ledger.NewStats(caller, now, s.cfg.MaxBet, s.cfg.DailyWithdrawLimit)
	primary := &ledger.AdminRecord{
		Identity:  caller,
		Address:   ledger.AdminAddress(caller),
		IsActive:  true,
		AddedBy:   caller,
		CreatedAt: now,
	}

	tbus := s.txBus()

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		err := s.platform.Insert(tx, stats)
		if err != nil {
			return fmt.Errorf("insert stats: %w", err)
		}

		err = s.admins.Insert(tx, primary)
		if err != nil {
			return fmt.Errorf("insert primary admin: %w", err)
		}

		err = s.accounts.Ensure(tx, ledger.VaultAddress(), vaultOwner)
		if err != nil {
			return fmt.Errorf("ensure vault: %w", err)
		}

		return tbus.Record(tx, ledger.AdminAdded{Admin: caller, AddedBy: caller})
	}, tbus)
	if err != nil {
		return nil, fmt.Errorf("initialize platform: %w", err)
	}

	log.WithField("primaryAdmin", caller).Info("platform initialized")

	return stats, nil
}

// InitializePlayer creates the Player Account and wallet for caller. Calling
// it again returns the stored account unchanged.
func (s *Service) InitializePlayer(ctx context.Context, caller string) (*ledger.Player, error) {
	if caller == "" {
		return nil, ledger.ErrUnauthorized
	}

	var player *ledger.Player

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Serializes against concurrent first calls and proves the platform exists.
		_, err := s.platform.Lock(tx)
		if err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		created, err := s.players.Insert(tx, ledger.NewPlayer(caller))
		if err != nil {
			return fmt.Errorf("insert player: %w", err)
		}

		if created {
			err = s.platform.IncrementUsers(tx)
			if err != nil {
				return fmt.Errorf("count user: %w", err)
			}
		}

		err = s.accounts.Ensure(tx, ledger.WalletAddress(caller), caller)
		if err != nil {
			return fmt.Errorf("ensure wallet: %w", err)
		}

		player, err = s.players.Lock(tx, ledger.PlayerAddress(caller))
		if err != nil {
			return fmt.Errorf("load player: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("initialize player: %w", err)
	}

	return player, nil
}

package treasury

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/admins"
)

// AddAdmin registers identity as an active admin. Only the primary admin may
// call it, and at most ledger.MaxAdmins records ever exist.
func (s *Service) AddAdmin(ctx context.Context, caller, identity string) (*ledger.AdminRecord, error) {
	if identity == "" {
		return nil, ledger.ErrInvalidField
	}

	var rec *ledger.AdminRecord

	tbus := eventbus.NewTransactionalBus(s.bus, s.events)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Lock(tx)
		if err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		existing, err := s.admins.Lock(tx, ledger.AdminAddress(identity))
		if err != nil && !errors.Is(err, admins.ErrAdminNotFound) {
			return fmt.Errorf("lock admin: %w", err)
		}

		rec, err = ledger.AddAdmin(stats, caller, identity, existing, s.now().Unix())
		if err != nil {
			return err
		}

		err = s.admins.Insert(tx, rec)
		if err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}

		err = s.platform.Update(tx, stats)
		if err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		return tbus.Record(tx, ledger.AdminAdded{Admin: identity, AddedBy: caller})
	}, tbus)
	if err != nil {
		return nil, fmt.Errorf("add admin: %w", err)
	}

	log.WithFields(log.Fields{"admin": identity, "addedBy": caller}).Info("admin added")

	return rec, nil
}

// RemoveAdmin deactivates identity's record. The record itself stays, so
// the slot it used is not freed.
func (s *Service) RemoveAdmin(ctx context.Context, caller, identity string) error {
	tbus := eventbus.NewTransactionalBus(s.bus, s.events)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Lock(tx)
		if err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		if identity == stats.PrimaryAdmin {
			return ledger.ErrCannotRemovePrimaryAdmin
		}

		err = ledger.RequirePrimary(stats, caller)
		if err != nil {
			return err
		}

		rec, err := s.admins.Lock(tx, ledger.AdminAddress(identity))
		if err != nil {
			return fmt.Errorf("lock admin: %w", err)
		}

		err = ledger.RemoveAdmin(stats, caller, rec)
		if err != nil {
			return err
		}

		err = s.admins.Deactivate(tx, rec.Address)
		if err != nil {
			return fmt.Errorf("deactivate admin: %w", err)
		}

		err = s.platform.Update(tx, stats)
		if err != nil {
			return fmt.Errorf("update stats: %w", err)
		}

		return tbus.Record(tx, ledger.AdminRemoved{Admin: identity, RemovedBy: caller})
	}, tbus)
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}

	log.WithFields(log.Fields{"admin": identity, "removedBy": caller}).Info("admin removed")

	return nil
}

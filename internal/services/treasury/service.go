// Package treasury runs the privileged operations: Admin Registry changes,
// vault deposits and withdrawals, and policy updates.
package treasury

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/dicevault/internal/repos/accounts/postgres"
	"github.com/fastprodman/dicevault/internal/repos/admins"
	pgadmins "github.com/fastprodman/dicevault/internal/repos/admins/postgres"
	"github.com/fastprodman/dicevault/internal/repos/events"
	pgevents "github.com/fastprodman/dicevault/internal/repos/events/postgres"
	"github.com/fastprodman/dicevault/internal/repos/platform"
	pgplatform "github.com/fastprodman/dicevault/internal/repos/platform/postgres"
)

type Service struct {
	db       *sql.DB
	platform platform.Platform
	admins   admins.Admins
	accounts accounts.Accounts
	events   events.Events
	bus      *eventbus.Bus
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *sql.DB, bus *eventbus.Bus, opts ...Option) *Service {
	s := &Service{
		db:       db,
		platform: pgplatform.New(db),
		admins:   pgadmins.New(db),
		accounts: pgaccounts.New(db),
		events:   pgevents.New(db),
		bus:      bus,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Caller is an authenticated identity together with the admin record
// address it presents, if any.
type Caller struct {
	Identity string
	Record   string
}

// authorize loads the presented record, if any, and checks it.
func (s *Service) authorize(tx *sql.Tx, stats *ledger.Stats, caller Caller) error {
	var rec *ledger.AdminRecord

	if caller.Record != "" {
		var err error

		rec, err = s.admins.Lock(tx, caller.Record)
		if err != nil && !errors.Is(err, admins.ErrAdminNotFound) {
			return fmt.Errorf("load admin record: %w", err)
		}
	}

	return ledger.Authorize(stats, caller.Identity, rec)
}

// ListAdmins returns every registry record, active or not, to an
// authorized admin.
func (s *Service) ListAdmins(ctx context.Context, caller Caller) ([]ledger.AdminRecord, error) {
	var recs []ledger.AdminRecord

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		stats, err := s.platform.Share(tx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		err = s.authorize(tx, stats, caller)
		if err != nil {
			return err
		}

		recs, err = s.admins.List(tx)
		if err != nil {
			return fmt.Errorf("list admins: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}

	return recs, nil
}

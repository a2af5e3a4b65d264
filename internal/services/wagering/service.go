// Package wagering runs the player-facing operations: platform and player
// setup, the two-phase dice wager, payout withdrawal and expired-wager
// refunds. Every operation commits atomically or not at all.
package wagering

import (
	"database/sql"
	"time"

	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/oracle"
	"github.com/fastprodman/dicevault/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/dicevault/internal/repos/accounts/postgres"
	"github.com/fastprodman/dicevault/internal/repos/admins"
	pgadmins "github.com/fastprodman/dicevault/internal/repos/admins/postgres"
	"github.com/fastprodman/dicevault/internal/repos/events"
	pgevents "github.com/fastprodman/dicevault/internal/repos/events/postgres"
	"github.com/fastprodman/dicevault/internal/repos/platform"
	pgplatform "github.com/fastprodman/dicevault/internal/repos/platform/postgres"
	"github.com/fastprodman/dicevault/internal/repos/players"
	pgplayers "github.com/fastprodman/dicevault/internal/repos/players/postgres"
	"github.com/fastprodman/dicevault/internal/repos/requests"
	pgrequests "github.com/fastprodman/dicevault/internal/repos/requests/postgres"
)

const sweepBatch = 100

type Config struct {
	MaxBet             int64
	DailyWithdrawLimit int64
	WagerTimeout       time.Duration
	// OracleIdentity is the only caller allowed to deliver randomness.
	OracleIdentity string
}

type Service struct {
	db       *sql.DB
	platform platform.Platform
	players  players.Players
	admins   admins.Admins
	accounts accounts.Accounts
	requests requests.Requests
	events   events.Events

	bus    *eventbus.Bus
	oracle oracle.Requester
	cfg    Config
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *sql.DB, bus *eventbus.Bus, requester oracle.Requester, cfg Config, opts ...Option) *Service {
	s := &Service{
		db:       db,
		platform: pgplatform.New(db),
		players:  pgplayers.New(db),
		admins:   pgadmins.New(db),
		accounts: pgaccounts.New(db),
		requests: pgrequests.New(db),
		events:   pgevents.New(db),
		bus:      bus,
		oracle:   requester,
		cfg:      cfg,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) unixNow() int64 {
	return s.now().Unix()
}

func (s *Service) txBus() *eventbus.TransactionalBus {
	return eventbus.NewTransactionalBus(s.bus, s.events)
}

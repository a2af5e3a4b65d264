package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/dicevault/internal/api"
	"github.com/fastprodman/dicevault/internal/config"
	"github.com/fastprodman/dicevault/internal/eventbus"
	"github.com/fastprodman/dicevault/internal/infra/logging"
	"github.com/fastprodman/dicevault/internal/infra/natsutil"
	"github.com/fastprodman/dicevault/internal/infra/pgutils"
	"github.com/fastprodman/dicevault/internal/infra/ratelimit"
	"github.com/fastprodman/dicevault/internal/jobs"
	"github.com/fastprodman/dicevault/internal/metrics"
	"github.com/fastprodman/dicevault/internal/oracle"
	"github.com/fastprodman/dicevault/internal/services/treasury"
	"github.com/fastprodman/dicevault/internal/services/wagering"
	"github.com/fastprodman/dicevault/internal/stream"
	"github.com/fastprodman/dicevault/pkg/envconf"
	"github.com/fastprodman/dicevault/pkg/shutdownqueue"
)

const serviceName = "dicevault-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	queue := shutdownqueue.New()
	drain := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return queue.Shutdown(shutdownCtx)
	}

	// Covers early returns; after a normal run the queue is already drained.
	defer func() {
		serr := drain()
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	queue.Add("postgres", func(context.Context) error { return db.Close() })

	// --- Event fan-out ---
	bus := eventbus.NewBus()

	m := metrics.New()
	bus.SubscribeAll(m.Observe)

	hub := stream.NewHub()
	bus.SubscribeAll(hub.Handle)

	if cfg.NATS.URL != "" {
		nc := natsutil.NewClient(cfg.NATS.URL, serviceName)

		err = nc.Connect(ctx)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}

		queue.Add("nats", nc.Close)
		bus.SubscribeAll(eventbus.NewNATSBridge(nc, serviceName).Handle)
	}

	queue.Add("event-bus", func(c context.Context) error {
		done := make(chan struct{})
		go func() {
			bus.Wait()
			close(done)
		}()

		select {
		case <-done:
			return nil
		case <-c.Done():
			return fmt.Errorf("drain event bus: %w", c.Err())
		}
	})

	// --- Rate limiting ---
	var limiter *ratelimit.Limiter

	if cfg.Redis.Addr != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}

		queue.Add("redis", func(context.Context) error { return rdb.Close() })
		limiter = ratelimit.New(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// --- Services ---
	requester, local, err := newOracle(cfg.Oracle)
	if err != nil {
		return err
	}

	wagers := wagering.New(db, bus, requester, wagering.Config{
		MaxBet:             cfg.Platform.MaxBet,
		DailyWithdrawLimit: cfg.Platform.DailyWithdrawLimit,
		WagerTimeout:       cfg.Platform.WagerTimeout,
		OracleIdentity:     cfg.Oracle.Identity,
	})

	if local != nil {
		local.Bind(wagers)
		queue.Add("local-oracle", local.Close)
	}

	treasurySvc := treasury.New(db, bus)

	sched := jobs.NewScheduler(wagers)

	err = sched.Start(ctx)
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	queue.Add("scheduler", sched.Stop)

	// --- HTTP server ---
	router := api.NewRouter(api.Deps{
		Wagers:         wagers,
		Treasury:       treasurySvc,
		Auth:           api.NewAuthenticator(cfg.Auth.JWTSecret),
		Metrics:        m,
		Hub:            hub,
		Limiter:        limiter,
		NativeDecimals: cfg.Platform.NativeDecimals,
	})

	srv := api.NewServer(cfg.Port, router)

	queue.Add("http", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		return drain()
	})

	log.WithFields(log.Fields{
		"port":   cfg.Port,
		"env":    cfg.AppEnv,
		"oracle": cfg.Oracle.Mode,
	}).Info("API started")

	return g.Wait()
}

func newOracle(cfg config.OracleConfig) (oracle.Requester, *oracle.Local, error) {
	switch cfg.Mode {
	case config.OracleHTTP:
		if cfg.URL == "" {
			return nil, nil, fmt.Errorf("%w: ORACLE_URL", envconf.ErrMissingRequired)
		}

		return oracle.NewHTTPClient(cfg.URL), nil, nil
	case config.OracleLocal:
		local := oracle.NewLocal(cfg.Identity, cfg.LocalDelay)
		return local, local, nil
	default:
		return nil, nil, fmt.Errorf("unknown ORACLE_MODE %q", cfg.Mode)
	}
}

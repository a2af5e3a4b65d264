package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fastprodman/dicevault/internal/infra/ratelimit"
	"github.com/fastprodman/dicevault/internal/metrics"
	"github.com/fastprodman/dicevault/internal/stream"
)

// Deps wires the router. Metrics, Hub and Limiter are optional.
type Deps struct {
	Wagers         WagerService
	Treasury       TreasuryService
	Auth           *Authenticator
	Metrics        *metrics.Metrics
	Hub            *stream.Hub
	Limiter        *ratelimit.Limiter
	NativeDecimals int32
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(d Deps) http.Handler {
	h := NewHandler(d.Wagers, d.Treasury, d.NativeDecimals)
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	limited := func(action string) func(http.Handler) http.Handler {
		if d.Limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}

		return d.Limiter.Middleware(action, CallerOf)
	}

	r.Group(func(r chi.Router) {
		r.Use(d.Auth.Middleware)

		r.Post("/platform/initialize", h.InitializePlatformHandler)
		r.Get("/platform/stats", h.GetStatsHandler)
		r.Get("/platform/vault", h.GetVaultHandler)

		r.Post("/players", h.InitializePlayerHandler)
		r.Get("/players/{identity}", h.GetPlayerHandler)
		r.Get("/accounts/{identity}/balance", h.GetBalanceHandler)

		r.With(limited("play")).Post("/play", h.PlayHandler)
		r.With(limited("withdraw")).Post("/withdraw", h.WithdrawHandler)
		r.With(limited("cancel")).Post("/wagers/cancel", h.CancelWagerHandler)

		r.Post("/oracle/callback", h.OracleCallbackHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/admins", h.ListAdminsHandler)
			r.Post("/admins", h.AddAdminHandler)
			r.Delete("/admins/{identity}", h.RemoveAdminHandler)
			r.Post("/deposit", h.DepositHandler)
			r.Post("/withdraw", h.AdminWithdrawHandler)
			r.Put("/limits", h.UpdateLimitHandler)
		})

		r.Get("/events", h.ListEventsHandler)
		if d.Hub != nil {
			r.Get("/events/ws", d.Hub.ServeWS)
		}
	})

	return r
}

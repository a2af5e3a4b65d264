package api

import (
	"encoding/hex"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
	"github.com/fastprodman/dicevault/internal/services/treasury"
)

// AdminRecordHeader carries the address of the admin record a privileged
// caller presents.
const AdminRecordHeader = "X-Admin-Record"

// HandlerProvider exposes the wagering and treasury services over HTTP.
type HandlerProvider struct {
	wagers   WagerService
	treasury TreasuryService
	fmt      amountFormatter
}

func NewHandler(wagers WagerService, treasury TreasuryService, nativeDecimals int32) *HandlerProvider {
	return &HandlerProvider{
		wagers:   wagers,
		treasury: treasury,
		fmt:      amountFormatter{decimals: nativeDecimals},
	}
}

func privilegedCaller(r *http.Request) treasury.Caller {
	return treasury.Caller{
		Identity: callerFrom(r.Context()),
		Record:   r.Header.Get(AdminRecordHeader),
	}
}

// --- Platform ---

// InitializePlatformHandler handles POST /platform/initialize
func (h *HandlerProvider) InitializePlatformHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.wagers.InitializePlatform(r.Context(), callerFrom(r.Context()))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.fmt.stats(stats))
}

// GetStatsHandler handles GET /platform/stats
func (h *HandlerProvider) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.wagers.GetStats(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.fmt.stats(stats))
}

// GetVaultHandler handles GET /platform/vault
func (h *HandlerProvider) GetVaultHandler(w http.ResponseWriter, r *http.Request) {
	balance, err := h.wagers.VaultBalance(r.Context())
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address": ledger.VaultAddress(),
		"balance": h.fmt.amount(balance),
	})
}

// --- Players ---

// InitializePlayerHandler handles POST /players
func (h *HandlerProvider) InitializePlayerHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.wagers.InitializePlayer(r.Context(), callerFrom(r.Context()))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.fmt.player(p))
}

// GetPlayerHandler handles GET /players/{identity}
func (h *HandlerProvider) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.wagers.GetPlayer(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.fmt.player(p))
}

// GetBalanceHandler handles GET /accounts/{identity}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")

	balance, err := h.wagers.WalletBalance(r.Context(), identity)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"identity": identity,
		"address":  ledger.WalletAddress(identity),
		"balance":  h.fmt.amount(balance),
	})
}

// --- Wagers ---

type playRequest struct {
	Choice int    `json:"choice"`
	Stake  int64  `json:"stake"`
	Seed   string `json:"seed" validate:"omitempty,max=64"`
}

// PlayHandler handles POST /play
func (h *HandlerProvider) PlayHandler(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Choice < 0 || req.Choice > math.MaxUint8 {
		writeLedgerError(w, r, ledger.ErrInvalidChoice)
		return
	}

	seed, err := hex.DecodeString(req.Seed)
	if err != nil {
		writeLedgerError(w, r, ledger.ErrInvalidSeed)
		return
	}

	ticket, err := h.wagers.Play(r.Context(), callerFrom(r.Context()), uint8(req.Choice), req.Stake, seed)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, h.fmt.ticket(ticket))
}

// WithdrawHandler handles POST /withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	amount, err := h.wagers.Withdraw(r.Context(), callerFrom(r.Context()))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"amount": h.fmt.amount(amount)})
}

// CancelWagerHandler handles POST /wagers/cancel
func (h *HandlerProvider) CancelWagerHandler(w http.ResponseWriter, r *http.Request) {
	amount, err := h.wagers.CancelWager(r.Context(), callerFrom(r.Context()))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"refunded": h.fmt.amount(amount)})
}

type callbackRequest struct {
	RequestID  string `json:"request_id" validate:"required,uuid"`
	Randomness string `json:"randomness" validate:"required,len=64"`
}

// OracleCallbackHandler handles POST /oracle/callback
func (h *HandlerProvider) OracleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	raw, err := hex.DecodeString(req.Randomness)
	if err != nil {
		writeError(w, http.StatusBadRequest, "randomness must be 32 hex-encoded bytes", "InvalidBody")
		return
	}

	var randomness [32]byte
	copy(randomness[:], raw)

	err = h.wagers.Resolve(r.Context(), callerFrom(r.Context()), req.RequestID, randomness)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

// --- Admin ---

type addAdminRequest struct {
	Identity string `json:"identity" validate:"required,max=256"`
}

// AddAdminHandler handles POST /admin/admins
func (h *HandlerProvider) AddAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req addAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.treasury.AddAdmin(r.Context(), callerFrom(r.Context()), req.Identity)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newAdminView(*rec))
}

// RemoveAdminHandler handles DELETE /admin/admins/{identity}
func (h *HandlerProvider) RemoveAdminHandler(w http.ResponseWriter, r *http.Request) {
	err := h.treasury.RemoveAdmin(r.Context(), callerFrom(r.Context()), chi.URLParam(r, "identity"))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAdminsHandler handles GET /admin/admins
func (h *HandlerProvider) ListAdminsHandler(w http.ResponseWriter, r *http.Request) {
	recs, err := h.treasury.ListAdmins(r.Context(), privilegedCaller(r))
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	out := make([]adminView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, newAdminView(rec))
	}

	writeJSON(w, http.StatusOK, out)
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

// DepositHandler handles POST /admin/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.treasury.Deposit(r.Context(), privilegedCaller(r), req.Amount)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deposited": h.fmt.amount(req.Amount)})
}

// AdminWithdrawHandler handles POST /admin/withdraw
func (h *HandlerProvider) AdminWithdrawHandler(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.treasury.Withdraw(r.Context(), privilegedCaller(r), req.Amount)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"withdrawn": h.fmt.amount(req.Amount)})
}

type limitRequest struct {
	Field string `json:"field" validate:"required"`
	Value int64  `json:"value"`
}

// UpdateLimitHandler handles PUT /admin/limits
func (h *HandlerProvider) UpdateLimitHandler(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stats, err := h.treasury.UpdateLimit(r.Context(), privilegedCaller(r), req.Field, req.Value)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.fmt.stats(stats))
}

// --- Events ---

// ListEventsHandler handles GET /events?after=<id>&limit=<n>
func (h *HandlerProvider) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		after int64
		limit int
		err   error
	)

	if s := q.Get("after"); s != "" {
		after, err = strconv.ParseInt(s, 10, 64)
		if err != nil || after < 0 {
			writeError(w, http.StatusBadRequest, "invalid after", "InvalidQuery")
			return
		}
	}

	if s := q.Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit", "InvalidQuery")
			return
		}
	}

	recs, err := h.wagers.ListEvents(r.Context(), after, limit)
	if err != nil {
		writeLedgerError(w, r, err)
		return
	}

	if recs == nil {
		recs = []events.Record{}
	}

	writeJSON(w, http.StatusOK, recs)
}

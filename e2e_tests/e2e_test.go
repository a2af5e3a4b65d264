package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/dicevault/internal/api"
)

// The suite runs against a live API started with ORACLE_MODE=local and the
// dev seed applied. It is skipped unless AUTH_JWT_SECRET is set.
const (
	defaultBaseURL = "http://localhost:8080"
	timeout        = 5 * time.Second
	waitReady      = 20 * time.Second
	waitSettled    = 30 * time.Second

	primaryAdmin = "admin"
)

var httpClient = &http.Client{Timeout: timeout}

type amount struct {
	Raw     int64  `json:"raw"`
	Display string `json:"display"`
}

type player struct {
	Identity          string `json:"identity"`
	State             string `json:"state"`
	RequestID         string `json:"request_id"`
	LastResult        uint8  `json:"last_result"`
	PendingWithdrawal amount `json:"pending_withdrawal"`
	Wins              int64  `json:"wins"`
	Losses            int64  `json:"losses"`
	TotalGames        int64  `json:"total_games"`
}

type stats struct {
	PrimaryAdmin string `json:"primary_admin"`
	AdminCount   int64  `json:"admin_count"`
	TotalBets    int64  `json:"total_bets"`
	TotalOwed    amount `json:"total_owed"`
	MaxBet       amount `json:"max_bet"`
}

type client struct {
	baseURL string
	auth    *api.Authenticator
}

func newClient(t *testing.T) *client {
	t.Helper()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		t.Skip("AUTH_JWT_SECRET not set; skipping e2e")
	}

	base := os.Getenv("E2E_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}

	c := &client{baseURL: base, auth: api.NewAuthenticator(secret)}
	c.waitUntilReady(t)

	return c
}

func TestE2E_WagerLifecycle(t *testing.T) {
	c := newClient(t)

	// A rerun against the same database finds the platform already set up.
	code, body := c.do(t, primaryAdmin, http.MethodPost, "/platform/initialize", nil)
	require.Contains(t, []int{http.StatusCreated, http.StatusConflict}, code, body)

	code, body = c.do(t, primaryAdmin, http.MethodPost, "/admin/deposit", map[string]any{"amount": 20_000_000_000})
	require.Equal(t, http.StatusOK, code, body)

	code, body = c.do(t, "alice", http.MethodPost, "/players", nil)
	require.Equal(t, http.StatusOK, code, body)

	before := c.player(t, "alice")
	require.Equal(t, "idle", before.State, "player has a wager in flight from an earlier run")

	t.Run("play_resolves_through_oracle", func(t *testing.T) {
		code, body := c.do(t, "alice", http.MethodPost, "/play", map[string]any{"choice": 3, "stake": 1_000_000})
		require.Equal(t, http.StatusAccepted, code, body)

		var ticket struct {
			RequestID string `json:"request_id"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &ticket))
		require.NotEmpty(t, ticket.RequestID)

		code, body = c.do(t, "alice", http.MethodPost, "/play", map[string]any{"choice": 3, "stake": 1_000_000})
		assert.Equal(t, http.StatusConflict, code, body)

		after := c.waitIdle(t, "alice")
		assert.Equal(t, before.TotalGames+1, after.TotalGames)
		assert.Equal(t, before.Wins+before.Losses+1, after.Wins+after.Losses)
		assert.GreaterOrEqual(t, after.LastResult, uint8(1))
		assert.LessOrEqual(t, after.LastResult, uint8(6))
	})

	t.Run("withdraw_pays_pending_or_rejects", func(t *testing.T) {
		p := c.player(t, "alice")

		code, body := c.do(t, "alice", http.MethodPost, "/withdraw", nil)
		if p.PendingWithdrawal.Raw == 0 {
			assert.Equal(t, http.StatusConflict, code, body)
			return
		}

		require.Equal(t, http.StatusOK, code, body)
		assert.Zero(t, c.player(t, "alice").PendingWithdrawal.Raw)
	})

	t.Run("events_are_journaled", func(t *testing.T) {
		code, body := c.do(t, "alice", http.MethodGet, "/events?limit=500", nil)
		require.Equal(t, http.StatusOK, code, body)

		var events []map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &events))
		assert.NotEmpty(t, events)
	})
}

func TestE2E_Rejections(t *testing.T) {
	c := newClient(t)

	code, body := c.do(t, "bob", http.MethodPost, "/players", nil)
	require.Equal(t, http.StatusOK, code, body)

	var st stats
	c.getJSON(t, "bob", "/platform/stats", &st)
	require.Equal(t, primaryAdmin, st.PrimaryAdmin)

	tests := []struct {
		name   string
		caller string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "choice_out_of_range", caller: "bob", method: http.MethodPost, path: "/play", body: map[string]any{"choice": 7, "stake": 1}, want: http.StatusBadRequest},
		{name: "above_max_bet", caller: "bob", method: http.MethodPost, path: "/play", body: map[string]any{"choice": 1, "stake": st.MaxBet.Raw + 1}, want: http.StatusBadRequest},
		{name: "non_admin_deposit", caller: "bob", method: http.MethodPost, path: "/admin/deposit", body: map[string]any{"amount": 1}, want: http.StatusForbidden},
		{name: "forged_oracle_callback", caller: "bob", method: http.MethodPost, path: "/oracle/callback", body: map[string]any{
			"request_id": "6f1c1d3e-4a7b-4c55-9a0e-2f6d4c3b2a10",
			"randomness": "0000000000000000000000000000000000000000000000000000000000000000",
		}, want: http.StatusForbidden},
		{name: "unknown_player", caller: "bob", method: http.MethodGet, path: "/players/nobody-here", want: http.StatusNotFound},
		{name: "cancel_without_wager", caller: "bob", method: http.MethodPost, path: "/wagers/cancel", want: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := c.do(t, tt.caller, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code, body)
		})
	}

	t.Run("missing_token", func(t *testing.T) {
		resp, err := httpClient.Get(c.baseURL + "/platform/stats")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

/* -------------------- helpers -------------------- */

func (c *client) do(t *testing.T, caller, method, path string, payload any) (int, string) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(t, err)

	token, err := c.auth.Issue(caller, time.Minute)
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)

	return resp.StatusCode, string(b)
}

func (c *client) getJSON(t *testing.T, caller, path string, dst any) {
	t.Helper()

	code, body := c.do(t, caller, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code, "GET %s: %s", path, body)
	require.NoError(t, json.Unmarshal([]byte(body), dst))
}

func (c *client) player(t *testing.T, identity string) player {
	t.Helper()

	var p player
	c.getJSON(t, identity, "/players/"+identity, &p)

	return p
}

// waitIdle polls until the player's wager settles.
func (c *client) waitIdle(t *testing.T, identity string) player {
	t.Helper()

	var last player

	require.Eventually(t, func() bool {
		last = c.player(t, identity)
		return last.State == "idle"
	}, waitSettled, 250*time.Millisecond, "wager of %s never settled", identity)

	return last
}

// waitUntilReady waits until GET /healthz responds 200 or times out.
func (c *client) waitUntilReady(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	u := fmt.Sprintf("%s/healthz", c.baseURL)

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", u, waitReady)
		case <-tick.C:
			resp, err := httpClient.Get(u)
			if err != nil {
				continue
			}

			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}

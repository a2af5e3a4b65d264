package oracle

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	defaultMaxRetries  = 3
)

type submitBody struct {
	RequestID  string `json:"request_id"`
	Player     string `json:"player"`
	CallerSeed string `json:"caller_seed"`
}

// HTTPClient posts requests to an oracle service at baseURL/requests.
type HTTPClient struct {
	baseURL    string
	client     *http.Client
	maxRetries uint64
	backoff    func() backoff.BackOff
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
		backoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Submit retries transport failures and 5xx answers with exponential
// backoff. A 4xx answer is final.
func (c *HTTPClient) Submit(ctx context.Context, req Request) error {
	body, err := json.Marshal(submitBody{
		RequestID:  req.ID,
		Player:     req.Player,
		CallerSeed: hex.EncodeToString(req.CallerSeed[:]),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	attempt := 0
	op := func() error {
		attempt++

		err := c.post(ctx, body)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"requestID": req.ID,
				"attempt":   attempt,
			}).Warn("oracle submit failed")
		}

		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)

	err = backoff.Retry(op, b)
	if err != nil {
		return fmt.Errorf("submit %s: %w", req.ID, err)
	}

	return nil
}

func (c *HTTPClient) post(ctx context.Context, body []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/requests", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("new request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode))
	default:
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}

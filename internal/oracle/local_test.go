package oracle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingResolver struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (r *recordingResolver) Resolve(_ context.Context, caller, requestID string, _ [32]byte) error {
	r.mu.Lock()
	r.calls = append(r.calls, caller+"/"+requestID)
	r.mu.Unlock()

	r.done <- struct{}{}

	return nil
}

func TestLocal_ResolvesAsIdentity(t *testing.T) {
	t.Parallel()

	res := &recordingResolver{done: make(chan struct{}, 1)}
	l := NewLocal("randomness-oracle", time.Millisecond)
	l.Bind(res)

	require.NoError(t, l.Submit(context.Background(), Request{ID: "req-1"}))

	select {
	case <-res.done:
	case <-time.After(2 * time.Second):
		t.Fatal("resolver not called")
	}

	require.NoError(t, l.Close(context.Background()))
	assert.Equal(t, []string{"randomness-oracle/req-1"}, res.calls)
}

func TestLocal_Unbound(t *testing.T) {
	t.Parallel()

	l := NewLocal("oracle", time.Millisecond)
	require.ErrorIs(t, l.Submit(context.Background(), Request{ID: "x"}), ErrNoResolver)
}

func TestLocal_CloseAbandonsPending(t *testing.T) {
	t.Parallel()

	res := &recordingResolver{done: make(chan struct{}, 1)}
	l := NewLocal("oracle", time.Hour)
	l.Bind(res)

	require.NoError(t, l.Submit(context.Background(), Request{ID: "slow"}))
	require.NoError(t, l.Close(context.Background()))

	assert.Empty(t, res.calls)
	require.ErrorIs(t, l.Submit(context.Background(), Request{ID: "late"}), ErrClosed)
}

func TestDraw_Distinct(t *testing.T) {
	t.Parallel()

	a, err := draw([32]byte{1})
	require.NoError(t, err)
	b, err := draw([32]byte{1})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

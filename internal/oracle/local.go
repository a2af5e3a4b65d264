package oracle

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrNoResolver = errors.New("local oracle has no resolver bound")
	ErrClosed     = errors.New("local oracle closed")
)

// Local is an in-process development oracle. It answers every request after
// delay by calling the bound Resolver as identity.
type Local struct {
	identity string
	delay    time.Duration

	mu       sync.Mutex
	resolver Resolver
	closed   bool
	wg       sync.WaitGroup
	stop     chan struct{}
}

func NewLocal(identity string, delay time.Duration) *Local {
	return &Local{
		identity: identity,
		delay:    delay,
		stop:     make(chan struct{}),
	}
}

// Bind sets the callback target. The wagering service both submits to and
// is resolved by the oracle, so it is bound after construction.
func (l *Local) Bind(r Resolver) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resolver = r
}

func (l *Local) Submit(_ context.Context, req Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolver == nil {
		return ErrNoResolver
	}
	if l.closed {
		return ErrClosed
	}

	resolver := l.resolver

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		select {
		case <-time.After(l.delay):
		case <-l.stop:
			return
		}

		randomness, err := draw(req.CallerSeed)
		if err != nil {
			log.WithError(err).WithField("requestID", req.ID).Error("draw randomness")
			return
		}

		err = resolver.Resolve(context.Background(), l.identity, req.ID, randomness)
		if err != nil {
			log.WithError(err).WithField("requestID", req.ID).Warn("local oracle callback failed")
			return
		}

		log.WithField("requestID", req.ID).Debug("local oracle resolved request")
	}()

	return nil
}

// Close abandons outstanding requests and waits for running callbacks.
func (l *Local) Close(ctx context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.stop)
	}
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait callbacks: %w", ctx.Err())
	}
}

// draw mixes fresh entropy with the caller seed.
func draw(seed [32]byte) ([32]byte, error) {
	var buf [32]byte

	_, err := rand.Read(buf[:])
	if err != nil {
		return buf, fmt.Errorf("read entropy: %w", err)
	}

	h, err := blake2b.New256([]byte("local_oracle"))
	if err != nil {
		return buf, fmt.Errorf("new hash: %w", err)
	}
	h.Write(buf[:])
	h.Write(seed[:])

	var out [32]byte
	copy(out[:], h.Sum(nil))

	return out, nil
}

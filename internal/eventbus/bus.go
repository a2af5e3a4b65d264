// Package eventbus fans committed ledger events out to in-process
// subscribers such as the WebSocket hub, the NATS publisher and metrics.
package eventbus

import (
	"context"
	"sync"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
	log "github.com/sirupsen/logrus"
)

// Message is a persisted event together with its typed form.
type Message struct {
	events.Record
	Event ledger.Event `json:"-"`
}

// Handler receives messages in commit order for one transaction.
type Handler func(ctx context.Context, msg Message)

// Bus dispatches messages to subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[ledger.EventType][]Handler
	all      []Handler
	wg       sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[ledger.EventType][]Handler)}
}

// Subscribe adds a handler for one event type.
func (b *Bus) Subscribe(eventType ledger.EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], h)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("subscribed handler")
}

// SubscribeAll adds a handler for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, h)
}

// Emit delivers msgs asynchronously. Each handler sees the batch in order on
// its own goroutine; a panicking handler is logged and skipped.
func (b *Bus) Emit(ctx context.Context, msgs ...Message) {
	if len(msgs) == 0 {
		return
	}

	type job struct {
		h    Handler
		msgs []Message
	}

	b.mu.RLock()
	jobs := make([]job, 0, len(b.all)+len(msgs))
	for _, h := range b.all {
		jobs = append(jobs, job{h: h, msgs: msgs})
	}
	for _, m := range msgs {
		for _, h := range b.handlers[m.Type] {
			jobs = append(jobs, job{h: h, msgs: []Message{m}})
		}
	}
	b.mu.RUnlock()

	for _, j := range jobs {
		b.wg.Add(1)

		go func() {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("event handler panicked")
				}
			}()

			for _, m := range j.msgs {
				j.h(ctx, m)
			}
		}()
	}
}

// Wait blocks until every handler started so far has returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

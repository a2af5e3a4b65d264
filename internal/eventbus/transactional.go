package eventbus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
	log "github.com/sirupsen/logrus"
)

// TransactionalBus journals events inside a database transaction and hands
// them to the real bus only once the commit succeeded. It serves a single
// transaction and is not safe for concurrent use.
type TransactionalBus struct {
	real    *Bus
	journal events.Events
	pending []Message
}

// NewTransactionalBus returns a bus bound to journal; real may be nil when
// nobody listens.
func NewTransactionalBus(real *Bus, journal events.Events) *TransactionalBus {
	return &TransactionalBus{real: real, journal: journal}
}

// Record appends ev to the audit log within tx and stashes it for delivery.
func (b *TransactionalBus) Record(tx *sql.Tx, ev ledger.Event) error {
	rec, err := b.journal.Append(tx, ev)
	if err != nil {
		return fmt.Errorf("journal %s: %w", ev.Type(), err)
	}

	b.Publish(Message{Record: rec, Event: ev})

	return nil
}

// Publish stashes msg until Committed.
func (b *TransactionalBus) Publish(msg Message) {
	b.pending = append(b.pending, msg)
}

// Committed flushes pending messages. Delivery uses a fresh context so
// subscribers outlive the request that committed.
func (b *TransactionalBus) Committed(context.Context) {
	log.WithField("pending", len(b.pending)).Debug("flushing committed events")

	if b.real != nil {
		b.real.Emit(context.Background(), b.pending...)
	}

	b.pending = nil
}

// RolledBack drops pending messages.
func (b *TransactionalBus) RolledBack() {
	b.pending = nil
}

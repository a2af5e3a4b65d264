package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fastprodman/dicevault/internal/ledger"
)

// Record is one persisted audit-log entry.
type Record struct {
	ID        int64            `json:"id"`
	Type      ledger.EventType `json:"type"`
	Payload   json.RawMessage  `json:"payload"`
	CreatedAt time.Time        `json:"created_at"`
}

// Events is the append-only audit log.
type Events interface {
	Append(tx *sql.Tx, ev ledger.Event) (Record, error)
	List(ctx context.Context, afterID int64, limit int) ([]Record, error)
}

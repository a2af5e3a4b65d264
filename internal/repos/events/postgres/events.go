package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fastprodman/dicevault/internal/ledger"
	"github.com/fastprodman/dicevault/internal/repos/events"
)

var _ events.Events = (*eventsRepo)(nil)

type eventsRepo struct{ db *sql.DB }

func New(db *sql.DB) *eventsRepo {
	return &eventsRepo{db: db}
}

func (r *eventsRepo) Append(tx *sql.Tx, ev ledger.Event) (events.Record, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return events.Record{}, fmt.Errorf("marshal %s: %w", ev.Type(), err)
	}

	rec := events.Record{Type: ev.Type(), Payload: payload}

	err = tx.QueryRow(`
		INSERT INTO events (type, payload)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, string(rec.Type), string(payload)).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return events.Record{}, fmt.Errorf("append event: %w", err)
	}

	return rec, nil
}

func (r *eventsRepo) List(ctx context.Context, afterID int64, limit int) ([]events.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, payload, created_at
		FROM events
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := make([]events.Record, 0, limit)

	for rows.Next() {
		var (
			rec     events.Record
			typ     string
			payload []byte
		)

		err = rows.Scan(&rec.ID, &typ, &payload, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		rec.Type = ledger.EventType(typ)
		rec.Payload = payload
		out = append(out, rec)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return out, nil
}

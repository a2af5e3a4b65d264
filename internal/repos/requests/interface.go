package requests

import (
	"context"
	"database/sql"

	"github.com/fastprodman/dicevault/internal/ledger"
)

var (
	ErrDuplicateRequest = ledger.ErrDuplicateRequest
	ErrRequestNotFound  = ledger.ErrRequestNotFound
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
	StatusRefunded Status = "refunded"
)

// Request is one outbound randomness request and its settlement.
type Request struct {
	ID             string
	PlayerIdentity string
	PlayerAddress  string
	Seed           [32]byte
	Status         Status
	Submitted      bool
	Attempts       int
	CreatedAt      int64
}

type Requests interface {
	Insert(tx *sql.Tx, req Request) error
	Lock(tx *sql.Tx, id string) (*Request, error)
	Settle(tx *sql.Tx, id string, status Status, randomness []byte, now int64) error
	MarkSubmitted(ctx context.Context, id string, ok bool) error
	ListUnsubmitted(ctx context.Context, limit int) ([]Request, error)
	ListExpired(ctx context.Context, createdBefore int64, limit int) ([]Request, error)
}

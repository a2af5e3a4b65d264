// Package oracle submits randomness requests to the external Randomness
// Oracle and, in development, stands in for it.
package oracle

import (
	"context"
	"errors"
)

var ErrRejected = errors.New("oracle rejected request")

// Request is what the oracle needs to answer a wager: the request id it must
// echo back and the caller seed it must mix in.
type Request struct {
	ID         string
	Player     string
	CallerSeed [32]byte
}

// Requester hands a randomness request to an oracle. Delivery of the result
// happens later through the callback path.
type Requester interface {
	Submit(ctx context.Context, req Request) error
}

// Resolver is the callback path a result is delivered to.
type Resolver interface {
	Resolve(ctx context.Context, caller, requestID string, randomness [32]byte) error
}

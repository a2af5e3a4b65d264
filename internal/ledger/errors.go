package ledger

import "errors"

// Validation errors: caller input violates a documented precondition.
var (
	ErrInvalidChoice = errors.New("choice must be between 1 and 6")
	ErrExceedsMaxBet = errors.New("bet exceeds max allowed")
	ErrInvalidField  = errors.New("invalid field name provided")
	ErrInvalidAmount = errors.New("amount must not be negative")
	ErrInvalidSeed   = errors.New("client seed must be at most 32 bytes")
)

// Authorization errors: caller lacks privilege or a structural limit is hit.
var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrCannotRemovePrimaryAdmin = errors.New("cannot remove primary admin")
	ErrMaxAdminsReached         = errors.New("maximum number of admins reached")
	ErrAdminExists              = errors.New("admin record already exists")
)

// State errors: the request is well formed but the entity's state forbids it.
var (
	ErrNothingToWithdraw  = errors.New("nothing to withdraw")
	ErrDailyLimitReached  = errors.New("platform daily payout limit reached")
	ErrNoBetPlaced        = errors.New("no bet placed yet")
	ErrWagerInFlight      = errors.New("a wager is already awaiting resolution")
	ErrWagerNotExpired    = errors.New("wager has not reached its refund timeout")
	ErrRequestNotPending  = errors.New("randomness request is not pending")
	ErrAlreadyInitialized = errors.New("platform already initialized")
	ErrAdminInactive      = errors.New("admin record is already inactive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDuplicateRequest   = errors.New("duplicate randomness request")
	ErrPlatformNotReady   = errors.New("platform not initialized")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrAdminNotFound      = errors.New("admin record not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRequestNotFound    = errors.New("randomness request not found")
)

// Arithmetic errors abort the transaction instead of wrapping or saturating.
var (
	ErrOverflow  = errors.New("arithmetic overflow")
	ErrUnderflow = errors.New("arithmetic underflow")
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindLimit         Kind = "limit"
	KindState         Kind = "state"
	KindNotFound      Kind = "not_found"
	KindArithmetic    Kind = "arithmetic"
	KindInternal      Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidChoice, KindValidation},
	{ErrExceedsMaxBet, KindValidation},
	{ErrInvalidField, KindValidation},
	{ErrInvalidAmount, KindValidation},
	{ErrInvalidSeed, KindValidation},

	{ErrUnauthorized, KindAuthorization},
	{ErrCannotRemovePrimaryAdmin, KindAuthorization},
	{ErrMaxAdminsReached, KindLimit},
	{ErrAdminExists, KindLimit},

	{ErrPlatformNotReady, KindNotFound},
	{ErrPlayerNotFound, KindNotFound},
	{ErrAdminNotFound, KindNotFound},
	{ErrAccountNotFound, KindNotFound},
	{ErrRequestNotFound, KindNotFound},

	{ErrNothingToWithdraw, KindState},
	{ErrDailyLimitReached, KindState},
	{ErrNoBetPlaced, KindState},
	{ErrWagerInFlight, KindState},
	{ErrWagerNotExpired, KindState},
	{ErrRequestNotPending, KindState},
	{ErrAlreadyInitialized, KindState},
	{ErrAdminInactive, KindState},
	{ErrInsufficientFunds, KindState},
	{ErrDuplicateRequest, KindState},

	{ErrOverflow, KindArithmetic},
	{ErrUnderflow, KindArithmetic},
}

// KindOf reports the class of err, or KindInternal for anything unknown.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}

// CodeOf returns a stable machine-readable name for a known error.
func CodeOf(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return "Internal"
}

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidChoice, "InvalidChoice"},
	{ErrExceedsMaxBet, "ExceedsMaxBet"},
	{ErrInvalidField, "InvalidField"},
	{ErrInvalidAmount, "InvalidAmount"},
	{ErrInvalidSeed, "InvalidSeed"},
	{ErrUnauthorized, "Unauthorized"},
	{ErrCannotRemovePrimaryAdmin, "CannotRemovePrimaryAdmin"},
	{ErrMaxAdminsReached, "MaxAdminsReached"},
	{ErrAdminExists, "AdminExists"},
	{ErrNothingToWithdraw, "NothingToWithdraw"},
	{ErrDailyLimitReached, "DailyLimitReached"},
	{ErrNoBetPlaced, "NoBetPlaced"},
	{ErrWagerInFlight, "WagerInFlight"},
	{ErrWagerNotExpired, "WagerNotExpired"},
	{ErrRequestNotPending, "RequestNotPending"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrAdminInactive, "AdminInactive"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrDuplicateRequest, "DuplicateRequest"},
	{ErrPlatformNotReady, "PlatformNotInitialized"},
	{ErrPlayerNotFound, "PlayerNotFound"},
	{ErrAdminNotFound, "AdminNotFound"},
	{ErrAccountNotFound, "AccountNotFound"},
	{ErrRequestNotFound, "RequestNotFound"},
	{ErrOverflow, "Overflow"},
	{ErrUnderflow, "Underflow"},
}

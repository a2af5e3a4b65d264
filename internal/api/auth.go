package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid or expired token")

type callerKey struct{}

// Authenticator verifies HS256 bearer tokens. The token subject is the
// caller identity for every ledger operation.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Issue mints a token for subject valid for ttl.
func (a *Authenticator) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify returns the subject of a valid token.
func (a *Authenticator) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", errInvalidToken
	}

	return claims.Subject, nil
}

// Middleware rejects requests without a valid bearer token. WebSocket
// clients that cannot set headers may pass the token as ?token=.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("token")

		if header := r.Header.Get("Authorization"); header != "" {
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization format", "Unauthenticated")
				return
			}
			raw = token
		}

		if raw == "" {
			writeError(w, http.StatusUnauthorized, "authorization required", "Unauthenticated")
			return
		}

		subject, err := a.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errInvalidToken.Error(), "Unauthenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), subject)))
	})
}

func withCaller(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, callerKey{}, identity)
}

// callerFrom returns the authenticated identity, or "" outside Middleware.
func callerFrom(ctx context.Context) string {
	identity, _ := ctx.Value(callerKey{}).(string)
	return identity
}

// CallerOf exposes the authenticated identity to other middleware.
func CallerOf(r *http.Request) string {
	return callerFrom(r.Context())
}

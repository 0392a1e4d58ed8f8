package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"skillSwapAPI/internal/apperr"
	"skillSwapAPI/internal/auth"
	"skillSwapAPI/internal/respond"
)

type contextKey string

const IdentityKey contextKey = "identity"

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Identity, error)
}

// Authenticate rejects requests without a valid bearer token. Every
// rejection gets the same body; the reason only goes to logs and metrics.
func Authenticate(verifier TokenVerifier, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				reject(w, r, log, reasonFor(err), err)
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				reject(w, r, log, reasonFor(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuthenticate attaches the identity when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuthenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, err := auth.BearerToken(r.Header.Get("Authorization")); err == nil {
				if id, err := verifier.Verify(r.Context(), token); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// GetIdentity extracts the verified caller from context
func GetIdentity(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(*auth.Identity)
	return id, ok && id != nil
}

// GetUserID extracts the caller's user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := GetIdentity(ctx)
	if !ok {
		return "", false
	}
	return id.ID, true
}

func reject(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, reason string, err error) {
	authRejections.WithLabelValues(reason).Inc()
	if log != nil {
		log.Debugw("unauthorized request",
			"path", r.URL.Path,
			"method", r.Method,
			"reason", reason,
			"error", err,
		)
	}
	respond.Error(w, r, log, apperr.Unauthorized("Authentication required"))
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed_header"
	case errors.Is(err, auth.ErrMissingKeyID), errors.Is(err, auth.ErrKeyNotFound), errors.Is(err, auth.ErrRefreshThrottled):
		return "unknown_key"
	case errors.Is(err, auth.ErrMissingSubject):
		return "missing_subject"
	default:
		return "invalid_token"
	}
}

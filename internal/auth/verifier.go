// Package auth verifies bearer JWTs against a JWKS endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"skillSwapAPI/internal/user"
)

var (
	ErrMissingToken   = errors.New("authorization header missing")
	ErrMalformedToken = errors.New("authorization header is not a bearer token")
	ErrMissingKeyID   = errors.New("token header has no kid")
	ErrMissingSubject = errors.New("token has no subject")
)

// Identity is what a verified token tells us about the caller.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == user.RoleAdmin
}

type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// KeySource resolves a key ID to a public verification key.
type KeySource interface {
	Key(ctx context.Context, kid string) (any, error)
}

type VerifierConfig struct {
	Issuer     string
	Audience   string
	Algorithms []string
	Leeway     time.Duration
}

type Verifier struct {
	keys   KeySource
	parser *jwt.Parser
}

func NewVerifier(keys KeySource, cfg VerifierConfig) *Verifier {
	algs := cfg.Algorithms
	if len(algs) == 0 {
		algs = []string{"RS256", "ES256"}
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(algs),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{keys: keys, parser: jwt.NewParser(opts...)}
}

// Verify checks the signature and standard claims of raw and requires a
// subject. Errors are meant for logs, not for clients.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrMissingKeyID
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}

	role := claims.Role
	if role == "" {
		role = user.RoleUser
	}
	return &Identity{ID: claims.Subject, Email: claims.Email, Role: role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMalformedToken
	}
	return token, nil
}

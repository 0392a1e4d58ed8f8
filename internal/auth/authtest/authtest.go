// Package authtest mints RS256 tokens and serves the matching JWKS for
// tests that exercise the real verification path.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"

	"skillSwapAPI/internal/auth"
)

const (
	KeyID     = "test-key-1"
	IssuerURL = "https://auth.skillswap.test"
	Audience  = "skillswap-api"
)

type Issuer struct {
	Key    *rsa.PrivateKey
	Server *httptest.Server

	fetches atomic.Int64
}

// NewIssuer starts a JWKS server publishing one RSA key. It is closed when
// the test ends.
func NewIssuer(t testing.TB) *Issuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	iss := &Issuer{Key: key}
	set := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &key.PublicKey,
		KeyID:     KeyID,
		Algorithm: "RS256",
		Use:       "sig",
	}}}
	body, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}

	iss.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		iss.fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	t.Cleanup(iss.Server.Close)
	return iss
}

// Fetches reports how many times the JWKS endpoint was hit.
func (i *Issuer) Fetches() int64 { return i.fetches.Load() }

// Verifier returns a verifier backed by a fresh key cache for this issuer.
func (i *Issuer) Verifier() *auth.Verifier {
	cache := auth.NewKeyCache(auth.KeyCacheConfig{
		URL:                i.Server.URL,
		TTL:                time.Hour,
		MinRefreshInterval: time.Minute,
	})
	return auth.NewVerifier(cache, auth.VerifierConfig{Issuer: IssuerURL, Audience: Audience})
}

// Claims builds valid claims for subject that callers may tweak.
func Claims(subject, email, role string) *auth.Claims {
	now := time.Now()
	return &auth.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    IssuerURL,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

// Sign signs claims with the issuer key under KeyID.
func (i *Issuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	return i.SignWithKID(t, claims, KeyID)
}

func (i *Issuer) SignWithKID(t testing.TB, claims jwt.Claims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(i.Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Token is a shortcut for a valid bearer token for subject.
func (i *Issuer) Token(t testing.TB, subject string) string {
	t.Helper()
	return i.Sign(t, Claims(subject, subject+"@example.com", ""))
}

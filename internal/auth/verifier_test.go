package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillSwapAPI/internal/auth"
	"skillSwapAPI/internal/auth/authtest"
)

func TestVerify_ValidToken(t *testing.T) {
	iss := authtest.NewIssuer(t)
	v := iss.Verifier()

	token := iss.Sign(t, authtest.Claims("user_123", "ada@example.com", "admin"))

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &auth.Identity{ID: "user_123", Email: "ada@example.com", Role: "admin"}, id)
	assert.True(t, id.IsAdmin())
}

func TestVerify_DefaultsRoleToUser(t *testing.T) {
	iss := authtest.NewIssuer(t)

	id, err := iss.Verifier().Verify(context.Background(), iss.Token(t, "user_1"))
	require.NoError(t, err)
	assert.Equal(t, "user", id.Role)
	assert.False(t, id.IsAdmin())
}

func TestVerify_KeysAreCachedAcrossRequests(t *testing.T) {
	iss := authtest.NewIssuer(t)
	v := iss.Verifier()

	for i := 0; i < 3; i++ {
		_, err := v.Verify(context.Background(), iss.Token(t, "user_1"))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), iss.Fetches())
}

func TestVerify_Rejections(t *testing.T) {
	iss := authtest.NewIssuer(t)
	v := iss.Verifier()

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token func() string
	}{
		{"garbage", func() string { return "not-a-jwt" }},
		{"expired", func() string {
			c := authtest.Claims("user_1", "", "")
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return iss.Sign(t, c)
		}},
		{"no expiry", func() string {
			c := authtest.Claims("user_1", "", "")
			c.ExpiresAt = nil
			return iss.Sign(t, c)
		}},
		{"not yet valid", func() string {
			c := authtest.Claims("user_1", "", "")
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
			return iss.Sign(t, c)
		}},
		{"wrong issuer", func() string {
			c := authtest.Claims("user_1", "", "")
			c.Issuer = "https://evil.example.com"
			return iss.Sign(t, c)
		}},
		{"wrong audience", func() string {
			c := authtest.Claims("user_1", "", "")
			c.Audience = jwt.ClaimStrings{"someone-else"}
			return iss.Sign(t, c)
		}},
		{"missing subject", func() string {
			return iss.Sign(t, authtest.Claims("", "", ""))
		}},
		{"missing kid", func() string {
			return iss.SignWithKID(t, authtest.Claims("user_1", "", ""), "")
		}},
		{"unknown kid", func() string {
			return iss.SignWithKID(t, authtest.Claims("user_1", "", ""), "other")
		}},
		{"wrong signing key", func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodRS256, authtest.Claims("user_1", "", ""))
			tok.Header["kid"] = authtest.KeyID
			s, err := tok.SignedString(otherKey)
			require.NoError(t, err)
			return s
		}},
		{"hmac algorithm", func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, authtest.Claims("user_1", "", ""))
			tok.Header["kid"] = authtest.KeyID
			s, err := tok.SignedString([]byte("test-secret-key-for-testing-only"))
			require.NoError(t, err)
			return s
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tc.token())
			assert.Error(t, err)
			assert.Nil(t, id)
		})
	}
}

func TestVerify_MissingSubjectError(t *testing.T) {
	iss := authtest.NewIssuer(t)

	_, err := iss.Verifier().Verify(context.Background(), iss.Sign(t, authtest.Claims("  ", "", "")))
	assert.ErrorIs(t, err, auth.ErrMissingSubject)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc", "abc", nil},
		{"  Bearer   abc  ", "abc", nil},
		{"", "", auth.ErrMissingToken},
		{"Basic dXNlcjpwYXNz", "", auth.ErrMalformedToken},
		{"Bearer", "", auth.ErrMalformedToken},
		{"   ", "", auth.ErrMissingToken},
		{"Token abc", "", auth.ErrMalformedToken},
		{"abc.def.ghi", "", auth.ErrMalformedToken},
	}
	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			got, err := auth.BearerToken(tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

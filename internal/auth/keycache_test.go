package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwksServer struct {
	*httptest.Server
	mu      sync.Mutex
	body    []byte
	status  int
	fetches atomic.Int64
}

func newJWKSServer(t *testing.T, keys ...jose.JSONWebKey) *jwksServer {
	t.Helper()
	s := &jwksServer{status: http.StatusOK}
	s.publish(t, keys...)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.fetches.Add(1)
		s.mu.Lock()
		defer s.mu.Unlock()
		w.WriteHeader(s.status)
		w.Write(s.body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) publish(t *testing.T, keys ...jose.JSONWebKey) {
	t.Helper()
	body, err := json.Marshal(jose.JSONWebKeySet{Keys: keys})
	require.NoError(t, err)
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

func (s *jwksServer) fail(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func rsaJWK(t *testing.T, kid string) jose.JSONWebKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return jose.JSONWebKey{Key: &key.PublicKey, KeyID: kid, Algorithm: "RS256", Use: "sig"}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(url string, clock *fakeClock) *KeyCache {
	c := NewKeyCache(KeyCacheConfig{URL: url, TTL: time.Hour, MinRefreshInterval: time.Minute})
	c.now = clock.Now
	return c
}

func TestKeyCache_FetchesOnceWithinTTL(t *testing.T) {
	srv := newJWKSServer(t, rsaJWK(t, "k1"))
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	cache := newTestCache(srv.URL, clock)

	for i := 0; i < 5; i++ {
		key, err := cache.Key(context.Background(), "k1")
		require.NoError(t, err)
		assert.IsType(t, &rsa.PublicKey{}, key)
	}
	assert.Equal(t, int64(1), srv.fetches.Load())

	clock.Advance(59 * time.Minute)
	_, err := cache.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), srv.fetches.Load())
}

func TestKeyCache_RefetchesAfterTTL(t *testing.T) {
	srv := newJWKSServer(t, rsaJWK(t, "k1"))
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	cache := newTestCache(srv.URL, clock)

	_, err := cache.Key(context.Background(), "k1")
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, err = cache.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), srv.fetches.Load())
}

func TestKeyCache_UnknownKidRefetchIsRateLimited(t *testing.T) {
	srv := newJWKSServer(t, rsaJWK(t, "k1"))
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	cache := newTestCache(srv.URL, clock)

	_, err := cache.Key(context.Background(), "k1")
	require.NoError(t, err)

	// Within the refresh interval an unknown kid must not hammer the endpoint.
	clock.Advance(10 * time.Second)
	for i := 0; i < 3; i++ {
		_, err = cache.Key(context.Background(), "rotated")
		assert.ErrorIs(t, err, ErrRefreshThrottled)
	}
	assert.Equal(t, int64(1), srv.fetches.Load())

	// Once the interval passes a rotated key is picked up.
	srv.publish(t, rsaJWK(t, "k1"), rsaJWK(t, "rotated"))
	clock.Advance(time.Minute)
	key, err := cache.Key(context.Background(), "rotated")
	require.NoError(t, err)
	assert.NotNil(t, key)
	assert.Equal(t, int64(2), srv.fetches.Load())
}

func TestKeyCache_KidMissingAfterRefresh(t *testing.T) {
	srv := newJWKSServer(t, rsaJWK(t, "k1"))
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	cache := newTestCache(srv.URL, clock)

	_, err := cache.Key(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKeyCache_ServesStaleKeyWhenRefreshFails(t *testing.T) {
	srv := newJWKSServer(t, rsaJWK(t, "k1"))
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	var refreshErrs []error
	cache := newTestCache(srv.URL, clock)
	cache.onRefresh = func(err error) { refreshErrs = append(refreshErrs, err) }

	_, err := cache.Key(context.Background(), "k1")
	require.NoError(t, err)

	srv.fail(http.StatusBadGateway)
	clock.Advance(2 * time.Hour)

	key, err := cache.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.NotNil(t, key)

	require.Len(t, refreshErrs, 2)
	assert.NoError(t, refreshErrs[0])
	assert.Error(t, refreshErrs[1])
}

func TestKeyCache_FetchFailureWithoutCachedKey(t *testing.T) {
	srv := newJWKSServer(t)
	srv.fail(http.StatusInternalServerError)
	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(srv.URL, clock)

	_, err := cache.Key(context.Background(), "k1")
	assert.ErrorContains(t, err, "unexpected status")
}

func TestKeyCache_SkipsEncryptionAndUnnamedKeys(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	enc := rsaJWK(t, "enc-key")
	enc.Use = "enc"
	unnamed := rsaJWK(t, "")
	ec := jose.JSONWebKey{Key: &ecKey.PublicKey, KeyID: "ec-1", Algorithm: "ES256", Use: "sig"}

	srv := newJWKSServer(t, enc, unnamed, ec)
	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(srv.URL, clock)

	key, err := cache.Key(context.Background(), "ec-1")
	require.NoError(t, err)
	assert.IsType(t, &ecdsa.PublicKey{}, key)

	clock.Advance(2 * time.Minute)
	_, err = cache.Key(context.Background(), "enc-key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

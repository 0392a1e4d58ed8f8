package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"golang.org/x/time/rate"
)

var (
	ErrKeyNotFound      = errors.New("signing key not found in JWKS")
	ErrRefreshThrottled = errors.New("JWKS refresh throttled")
)

const maxJWKSBytes = 1 << 20

type KeyCacheConfig struct {
	URL        string
	HTTPClient *http.Client
	// TTL is how long a fetched key set is trusted without refetching.
	TTL time.Duration
	// MinRefreshInterval bounds how often the JWKS endpoint may be hit,
	// including refetches triggered by unknown key IDs.
	MinRefreshInterval time.Duration
	// OnRefresh, when set, observes every fetch attempt.
	OnRefresh func(err error)
}

// KeyCache is a read-through cache of JWKS public keys keyed by kid.
type KeyCache struct {
	url       string
	client    *http.Client
	ttl       time.Duration
	limiter   *rate.Limiter
	onRefresh func(error)
	now       func() time.Time

	fetchMu sync.Mutex

	mu        sync.RWMutex
	keys      map[string]any
	fetchedAt time.Time
}

func NewKeyCache(cfg KeyCacheConfig) *KeyCache {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	limit := rate.Inf
	if cfg.MinRefreshInterval > 0 {
		limit = rate.Every(cfg.MinRefreshInterval)
	}
	return &KeyCache{
		url:       cfg.URL,
		client:    client,
		ttl:       ttl,
		limiter:   rate.NewLimiter(limit, 1),
		onRefresh: cfg.OnRefresh,
		now:       time.Now,
		keys:      map[string]any{},
	}
}

// Key returns the public key for kid, fetching the JWKS when the cached set
// is stale or does not contain kid. A stale key is served when a refetch
// fails or is throttled.
func (c *KeyCache) Key(ctx context.Context, kid string) (any, error) {
	if key, fresh := c.lookup(kid); key != nil && fresh {
		return key, nil
	}

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	key, fresh := c.lookup(kid)
	if key != nil && fresh {
		return key, nil
	}

	if !c.limiter.AllowN(c.now(), 1) {
		if key != nil {
			return key, nil
		}
		return nil, fmt.Errorf("%w: unknown kid %q", ErrRefreshThrottled, kid)
	}

	if err := c.refresh(ctx); err != nil {
		if key != nil {
			return key, nil
		}
		return nil, err
	}

	if key, _ = c.lookup(kid); key != nil {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, kid)
}

func (c *KeyCache) lookup(kid string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := c.keys[kid]
	fresh := !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl
	return key, fresh
}

func (c *KeyCache) refresh(ctx context.Context) (err error) {
	defer func() {
		if c.onRefresh != nil {
			c.onRefresh(err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("build JWKS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch JWKS: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("fetch JWKS: unexpected status %s", res.Status)
	}

	var doc struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxJWKSBytes)).Decode(&doc); err != nil {
		return fmt.Errorf("decode JWKS: %w", err)
	}

	next := make(map[string]any, len(doc.Keys))
	for _, raw := range doc.Keys {
		var jwk jose.JSONWebKey
		if err := json.Unmarshal(raw, &jwk); err != nil {
			continue
		}
		if jwk.KeyID == "" || jwk.Use == "enc" {
			continue
		}
		pub := jwk.Public()
		if pub.Key == nil {
			continue
		}
		next[jwk.KeyID] = pub.Key
	}
	if len(next) == 0 {
		return errors.New("JWKS contained no usable signing keys")
	}

	c.mu.Lock()
	c.keys = next
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return nil
}

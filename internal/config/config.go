package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	LogMode     string
	StoreDriver string
	DatabaseURL string

	JWKSURL                string
	JWTIssuer              string
	JWTAudience            string
	JWKSCacheTTL           time.Duration
	JWKSMinRefreshInterval time.Duration

	CORSOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies are the peers whose X-Forwarded-For is believed.
	TrustedProxies []netip.Prefix

	MetricsUser string
	MetricsPass string
	// PprofSecret guards /debug/pprof; the routes are not mounted when empty.
	PprofSecret string

	// Passed through for collaborators that are not wired in this service.
	ResendAPIKey  string
	PostHogAPIKey string
}

// Load reads the process environment. Call godotenv.Load first if a .env
// file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        stringEnv("PORT", "3333"),
		LogMode:     stringEnv("LOG_MODE", "production"),
		StoreDriver: strings.ToLower(stringEnv("STORE", "postgres")),
		DatabaseURL: stringEnv("DATABASE_URL", ""),

		JWKSURL:     stringEnv("JWKS_URL", ""),
		JWTIssuer:   stringEnv("JWT_ISSUER", ""),
		JWTAudience: stringEnv("JWT_AUDIENCE", ""),

		CORSOrigins: listEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),

		MetricsUser: stringEnv("METRICS_USER", ""),
		MetricsPass: stringEnv("METRICS_PASS", ""),
		PprofSecret: stringEnv("PPROF_SECRET", ""),

		ResendAPIKey:  stringEnv("RESEND_API_KEY", ""),
		PostHogAPIKey: stringEnv("POSTHOG_API_KEY", ""),
	}

	var err error
	if cfg.JWKSCacheTTL, err = durationEnv("JWKS_CACHE_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWKSMinRefreshInterval, err = durationEnv("JWKS_MIN_REFRESH_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", 30); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = prefixListEnv("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE must be postgres or memory, got %q", c.StoreDriver)
	}
	if c.JWKSURL == "" {
		return fmt.Errorf("JWKS_URL environment variable is not set")
	}
	if c.JWKSCacheTTL <= 0 {
		return fmt.Errorf("JWKS_CACHE_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func stringEnv(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func listEnv(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// prefixListEnv accepts CIDRs and bare addresses; a bare address is a
// single-host prefix.
func prefixListEnv(name string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, v := range listEnv(name, nil) {
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func intEnv(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return i, nil
}

func floatEnv(name string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

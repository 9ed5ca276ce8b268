package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "pdflex"

var errNotInitialized = errors.New("redis client not initialized")

// fixedWindow increments the counter and starts its window on the first hit
// in one round trip, so a counter can never be left without an expiry.
var fixedWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// Window is the state of one rate-limit scope after a hit.
type Window struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Client holds the redis connection behind the auth rate limiter and the
// readiness check.
type Client struct {
	raw *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New connects using a URL or a plain address and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := options(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "redis_addr", opts.Addr), "redis connection established")
	}
	return &Client{raw: raw}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(raw *redis.Client) *Client {
	return &Client{raw: raw}
}

func options(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case strings.TrimSpace(cfg.URL) != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case strings.TrimSpace(cfg.Address) != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}

	// URL values win; config fills whatever the URL left unset.
	setDefault(&opts.DB, cfg.DB)
	setDefault(&opts.PoolSize, cfg.PoolSize)
	setDefault(&opts.MinIdleConns, cfg.MinIdleConns)
	setDefault(&opts.DialTimeout, cfg.DialTimeout)
	setDefault(&opts.ReadTimeout, cfg.ReadTimeout)
	setDefault(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func setDefault[T int | time.Duration](field *T, value T) {
	if *field == 0 {
		*field = value
	}
}

// Hit counts one attempt against scope in a fixed window of the given length.
func (c *Client) Hit(ctx context.Context, scope string, limit int64, window time.Duration) (Window, error) {
	if c == nil || c.raw == nil {
		return Window{}, errNotInitialized
	}
	if window <= 0 {
		return Window{}, fmt.Errorf("rate limit window must be positive, got %s", window)
	}
	res, err := fixedWindow.Run(ctx, c.raw, []string{c.RateLimitKey(scope)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("rate limit %s: %w", scope, err)
	}
	if len(res) != 2 {
		return Window{}, fmt.Errorf("rate limit %s: unexpected reply %v", scope, res)
	}
	w := Window{Count: res[0], Allowed: res[0] <= limit}
	if res[1] > 0 {
		w.RetryAfter = time.Duration(res[1]) * time.Millisecond
	}
	return w, nil
}

// RetryAfter returns the remaining window for scope, or zero when the scope
// has no live counter.
func (c *Client) RetryAfter(ctx context.Context, scope string) (time.Duration, error) {
	if c == nil || c.raw == nil {
		return 0, errNotInitialized
	}
	ttl, err := c.raw.PTTL(ctx, c.RateLimitKey(scope)).Result()
	if err != nil {
		return 0, err
	}
	return max(ttl, 0), nil
}

// ResetWindow clears the counter for scope.
func (c *Client) ResetWindow(ctx context.Context, scope string) error {
	if c == nil || c.raw == nil {
		return errNotInitialized
	}
	return c.raw.Del(ctx, c.RateLimitKey(scope)).Err()
}

// RateLimitKey namespaces a scope such as "login:ip:1.2.3.4".
func (c *Client) RateLimitKey(scope string) string {
	return keyNamespace + ":rate_limit:" + strings.TrimSpace(scope)
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errNotInitialized
	}
	return c.raw.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

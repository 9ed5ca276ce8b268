package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pdflex/pdflex-backend/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

func newMiniredisClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	return NewFromClient(raw), mr
}

func TestHitFixedWindow(t *testing.T) {
	ctx := context.Background()
	client, mr := newMiniredisClient(t)
	scope := "login:ip:1.2.3.4"

	w, err := client.Hit(ctx, scope, 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Allowed || w.Count != 1 || w.RetryAfter != time.Minute {
		t.Fatalf("unexpected first hit %+v", w)
	}
	if ttl := mr.TTL("pdflex:rate_limit:" + scope); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %s", ttl)
	}

	mr.FastForward(10 * time.Second)
	w, err = client.Hit(ctx, scope, 2, time.Minute)
	if err != nil || !w.Allowed || w.Count != 2 {
		t.Fatalf("unexpected second hit %+v err=%v", w, err)
	}
	if w.RetryAfter != 50*time.Second {
		t.Fatalf("second hit must not extend the window, retry after %s", w.RetryAfter)
	}

	w, err = client.Hit(ctx, scope, 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Allowed || w.Count != 3 {
		t.Fatalf("expected limit reached, got %+v", w)
	}

	retry, err := client.RetryAfter(ctx, scope)
	if err != nil {
		t.Fatalf("retry after: %v", err)
	}
	if retry != 50*time.Second {
		t.Fatalf("unexpected retry after %s", retry)
	}

	mr.FastForward(time.Minute)
	w, err = client.Hit(ctx, scope, 2, time.Minute)
	if err != nil || !w.Allowed || w.Count != 1 {
		t.Fatalf("expected window reset, got %+v err=%v", w, err)
	}
}

func TestHitRejectsEmptyWindow(t *testing.T) {
	client, _ := newMiniredisClient(t)
	if _, err := client.Hit(context.Background(), "login:ip:x", 1, 0); err == nil {
		t.Fatal("expected zero window to be rejected")
	}
}

func TestResetWindow(t *testing.T) {
	ctx := context.Background()
	client, mr := newMiniredisClient(t)

	if _, err := client.Hit(ctx, "login:email:a@b.c", 1, time.Minute); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if err := client.ResetWindow(ctx, "login:email:a@b.c"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mr.Exists("pdflex:rate_limit:login:email:a@b.c") {
		t.Fatal("expected key removed")
	}
	retry, err := client.RetryAfter(ctx, "login:email:a@b.c")
	if err != nil || retry != 0 {
		t.Fatalf("expected zero retry for missing key, got %s err=%v", retry, err)
	}
}

func TestPingAndKeys(t *testing.T) {
	client, _ := newMiniredisClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if got := client.RateLimitKey(" register:ip:x "); got != "pdflex:rate_limit:register:ip:x" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(context.Background(), config.RedisConfig{}, nil); err == nil {
		t.Fatal("expected missing endpoint error")
	}
}

func TestNewConnectsToURL(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr() + "/0", PoolSize: 2}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer client.Close()
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	var c Client
	if _, err := c.Hit(context.Background(), "k", 1, time.Second); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on empty client: %v", err)
	}
}

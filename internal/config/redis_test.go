package config

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// NewRedisClient should return a working client when REDIS_ADDR points at a
// reachable server, and nil when nothing is listening.
func TestNewRedisClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("REDIS_TLS", "")

	client := NewRedisClient()
	if client == nil {
		t.Fatal("expected a client for a reachable server, got nil")
	}
	defer client.Close()
	if client.Options().TLSConfig != nil {
		t.Error("TLS config set without REDIS_TLS")
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	// Port 1 is reserved and nothing listens on it.
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")

	if client := NewRedisClient(); client != nil {
		client.Close()
		t.Fatal("expected nil client for an unreachable server")
	}
}

// Enabling TLS must not silently disable certificate verification; the
// connection carries refresh tokens. Skipping verification takes a second,
// explicit opt-in.
func TestRedisOptionsTLSVerifiesByDefault(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REDIS_TLS_SKIP_VERIFY", "")

	opts := redisOptions()
	if opts.TLSConfig == nil {
		t.Fatal("REDIS_TLS=true produced no TLS config")
	}
	if opts.TLSConfig.InsecureSkipVerify {
		t.Error("certificate verification disabled without REDIS_TLS_SKIP_VERIFY")
	}

	t.Setenv("REDIS_TLS_SKIP_VERIFY", "1")
	if opts := redisOptions(); !opts.TLSConfig.InsecureSkipVerify {
		t.Error("REDIS_TLS_SKIP_VERIFY=1 should disable verification")
	}
}

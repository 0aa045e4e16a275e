package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")
	cfg := config.RedisConfig{Host: host, Port: port}

	client, err := NewRedisClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	mr.Close()
	if _, err := NewRedisClient(context.Background(), cfg); err == nil {
		t.Fatal("expected error once the server is gone")
	}
}

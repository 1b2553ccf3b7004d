package query

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func TestRedisSharedRoundTrip(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	r := &RedisShared{store: mock}

	if _, ok, err := r.Get(ctx, ProductKey(1)); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	if err := r.Set(ctx, ProductKey(1), []byte(`{"id":1}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := mock.data["minishop:query:products/1"]; !ok {
		t.Fatalf("key not namespaced: %v", mock.data)
	}
	if mock.ttls["minishop:query:products/1"] != time.Minute {
		t.Fatalf("ttl=%s", mock.ttls["minishop:query:products/1"])
	}

	b, ok, err := r.Get(ctx, ProductKey(1))
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(b) != `{"id":1}` {
		t.Fatalf("value=%s", b)
	}

	if err := r.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close without raw client: %v", err)
	}
}

//go:build integration

package cache

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer starts a Redis container and returns a client
func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func TestManager_Integration_RevalidationCycle(t *testing.T) {
	client := setupRedisContainer(t)
	manager := NewManager(client, time.Minute)
	ctx := context.Background()

	key := CacheKey{Path: "/Cards/base1-4", Scope: ScopeForToken("")}

	entry, ok := ResponseToEntry(http.Header{
		"Content-Type": []string{"application/json"},
		"Etag":         []string{`"v1"`},
	}, []byte(`{"data":{"id":"base1-4"}}`))
	if !ok {
		t.Fatal("ResponseToEntry() rejected a response with an ETag")
	}

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	stored, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ShouldMakeConditionalRequest(stored) {
		t.Fatal("stored entry should require revalidation")
	}

	RefreshEntry(stored, http.Header{"Cache-Control": []string{"max-age=120"}})
	if err := manager.Set(ctx, key, stored); err != nil {
		t.Fatalf("Set() after refresh error = %v", err)
	}

	refreshed, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() after refresh error = %v", err)
	}
	if !refreshed.IsFresh() {
		t.Error("refreshed entry should be fresh")
	}
	if refreshed.ETag != `"v1"` {
		t.Errorf("ETag = %q, want %q", refreshed.ETag, `"v1"`)
	}

	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestManager_Integration_Expiry(t *testing.T) {
	client := setupRedisContainer(t)
	manager := NewManager(client, time.Second)
	ctx := context.Background()

	key := CacheKey{Path: "/Sets"}
	entry := &CacheEntry{Data: []byte(`{"data":[]}`), ETag: `"v1"`}

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after retention error = %v, want ErrCacheMiss", err)
	}
}

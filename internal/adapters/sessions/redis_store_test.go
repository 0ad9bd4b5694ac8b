package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"zone-matrix-service/internal/domain"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	created := time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)
	s := domain.NewSession("abc", domain.ProfileMidday, created, "welcome", 8*time.Second)
	if err := s.SelectOrigin(3, 24); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.State != domain.SessionOriginSelected || got.OriginIndex != 3 {
		t.Fatalf("unexpected session %+v", got)
	}
	if got.Notice == nil || got.Notice.Message != "welcome" {
		t.Fatalf("notice lost in round trip: %+v", got.Notice)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
}

func TestRedisStoreMissingSession(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisStoreExpiresIdleSessions(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, domain.NewSession("abc", domain.ProfileMidday, time.Now(), "", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "abc"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisStoreGetRefreshesTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, domain.NewSession("abc", domain.ProfileMidday, time.Now(), "", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(40 * time.Second)
	if _, err := store.Get(ctx, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another 40s would cross the original deadline; the GETEX refresh
	// keeps the session alive.
	mr.FastForward(40 * time.Second)
	if _, err := store.Get(ctx, "abc"); err != nil {
		t.Fatalf("refreshed session expired too early: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "abc"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, domain.NewSession("abc", domain.ProfileMidday, time.Now(), "", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "abc"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"tynda/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStoreTest(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(rdb, ttl)
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestSessionStore_CreateAndRead(t *testing.T) {
	store, _, done := newSessionStoreTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	token, err := store.Create(ctx, &model.Session{UserID: "u-1", Username: "alice", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(token) != 32 {
		t.Errorf("expected 32-char token, got %d chars", len(token))
	}

	sess, err := store.Read(ctx, token)
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.UserID != "u-1" || sess.Username != "alice" || sess.Role != model.RoleUser {
		t.Errorf("unexpected session payload: %+v", sess)
	}
}

func TestSessionStore_ReadUnknownToken(t *testing.T) {
	store, _, done := newSessionStoreTest(t, time.Hour)
	defer done()

	sess, err := store.Read(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	if err != nil {
		t.Fatalf("expected no error for unknown token, got %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session for unknown token, got %+v", sess)
	}
}

func TestSessionStore_TTLExpiry(t *testing.T) {
	store, mr, done := newSessionStoreTest(t, time.Minute)
	defer done()
	ctx := context.Background()

	token, err := store.Create(ctx, &model.Session{UserID: "u-1", Username: "alice", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	sess, err := store.Read(ctx, token)
	if err != nil {
		t.Fatalf("read expired session: %v", err)
	}
	if sess != nil {
		t.Errorf("expected nil session after TTL expiry, got %+v", sess)
	}
}

func TestSessionStore_Destroy(t *testing.T) {
	store, _, done := newSessionStoreTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	token, err := store.Create(ctx, &model.Session{UserID: "u-1", Username: "alice", Role: model.RoleUser})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy session: %v", err)
	}
	if sess, _ := store.Read(ctx, token); sess != nil {
		t.Errorf("expected nil session after destroy, got %+v", sess)
	}

	// Destroying again is idempotent.
	if err := store.Destroy(ctx, token); err != nil {
		t.Errorf("second destroy: expected no error, got %v", err)
	}
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	store, _, done := newSessionStoreTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		token, err := store.Create(ctx, &model.Session{UserID: "u-1"})
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

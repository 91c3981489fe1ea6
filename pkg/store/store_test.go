package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func TestProfileAndPositionKeys(t *testing.T) {
	if ProfileKey("abc") != "profile:abc" {
		t.Errorf("Expected 'profile:abc', got '%s'", ProfileKey("abc"))
	}
	if PositionKey("abc") != "position:abc" {
		t.Errorf("Expected 'position:abc', got '%s'", PositionKey("abc"))
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client)
	defer s.Close()

	ctx := context.Background()

	_, err := s.Get(ctx, ProfileKey("u1"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing key, got %v", err)
	}

	doc := []byte(`{"generatedEssay":"hello"}`)
	err = s.Set(ctx, ProfileKey("u1"), doc)
	if err != nil {
		t.Fatalf("Unexpected set error: %v", err)
	}

	got, err := s.Get(ctx, ProfileKey("u1"))
	if err != nil {
		t.Fatalf("Unexpected get error: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Expected document round-tripped, got %s", got)
	}
}

func TestRedisStorePosition(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client)
	defer s.Close()

	ctx := context.Background()

	index, err := s.LoadPosition(ctx, "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if index != 0 {
		t.Errorf("Expected 0 for missing position, got %d", index)
	}

	err = s.SavePosition(ctx, "u1", 4)
	if err != nil {
		t.Fatalf("Unexpected save error: %v", err)
	}

	index, err = s.LoadPosition(ctx, "u1")
	if err != nil {
		t.Fatalf("Unexpected load error: %v", err)
	}
	if index != 4 {
		t.Errorf("Expected position 4, got %d", index)
	}
}

func TestRedisStoreCorruptPosition(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client)
	defer s.Close()

	ctx := context.Background()
	err := s.Set(ctx, PositionKey("u1"), []byte("not-a-number"))
	if err != nil {
		t.Fatalf("Unexpected set error: %v", err)
	}

	_, err = s.LoadPosition(ctx, "u1")
	if err == nil {
		t.Error("Expected error for corrupt position value")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := []byte("original")
	err := s.Set(ctx, "k", doc)
	if err != nil {
		t.Fatalf("Unexpected set error: %v", err)
	}

	doc[0] = 'X'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Unexpected get error: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("Expected stored copy isolated from caller's buffer, got %s", got)
	}

	got[0] = 'Y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("Expected returned copy isolated from store, got %s", again)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ctx := context.Background()

	_, err = s.Get(ctx, ProfileKey("u1"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	err = s.Set(ctx, ProfileKey("u1"), []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("Unexpected set error: %v", err)
	}

	got, err := s.Get(ctx, ProfileKey("u1"))
	if err != nil {
		t.Fatalf("Unexpected get error: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Expected document round-tripped, got %s", got)
	}

	err = s.SavePosition(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("Unexpected save error: %v", err)
	}
	index, err := s.LoadPosition(ctx, "u1")
	if err != nil {
		t.Fatalf("Unexpected load error: %v", err)
	}
	if index != 2 {
		t.Errorf("Expected position 2, got %d", index)
	}
}

func TestAnonymousProviderStable(t *testing.T) {
	dir := t.TempDir()
	p := NewAnonymousProvider(dir)
	ctx := context.Background()

	first, err := p.Identity(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first == "" {
		t.Fatal("Expected non-empty identity")
	}

	second, err := p.Identity(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("Expected stable identity, got '%s' then '%s'", first, second)
	}

	// A fresh provider over the same state dir sees the same identity.
	third, err := NewAnonymousProvider(dir).Identity(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if third != first {
		t.Errorf("Expected identity persisted on disk, got '%s'", third)
	}

	data, err := os.ReadFile(filepath.Join(dir, "identity"))
	if err != nil {
		t.Fatalf("Expected identity file written: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected identity file contents")
	}
}

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{ID: "fixed"}
	identity, err := p.Identity(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if identity != "fixed" {
		t.Errorf("Expected 'fixed', got '%s'", identity)
	}
}

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)

	if err := c.Put(ctx, "Stop", "Стоп", NotApproved); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	hit, ok, err := c.Lookup(ctx, "Stop")
	if err != nil || !ok {
		t.Fatalf("Lookup = (%v, %v, %v)", hit, ok, err)
	}
	if hit.Translation != "Стоп" || hit.Approved {
		t.Errorf("Lookup = %+v, want not approved Стоп", hit)
	}

	phrase, err := c.FindByTranslation(ctx, "Стоп")
	if err != nil {
		t.Fatalf("FindByTranslation failed: %v", err)
	}
	if err := c.Put(ctx, phrase, "Стоп", Approved); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	hit, ok, _ = c.Lookup(ctx, "Stop")
	if !ok || !hit.Approved {
		t.Errorf("Lookup after approval = %+v, %v; want approved", hit, ok)
	}
	if _, err := c.FindByTranslation(ctx, "Стоп"); !errors.Is(err, ErrNotFound) {
		t.Errorf("approved entry must not be found by reverse lookup, got %v", err)
	}
}

func TestCacheNormalizesKeys(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)

	if err := c.Put(ctx, " Stop. ", "Стоп", NotApproved); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	for _, phrase := range []string{"Stop", "Stop.", "Stop..", "  Stop "} {
		if _, ok, _ := c.Lookup(ctx, phrase); !ok {
			t.Errorf("Lookup(%q) missed", phrase)
		}
	}

	if tr, ok, _ := c.LookupNotApproved(ctx, "Stop."); !ok || tr != "Стоп" {
		t.Errorf("LookupNotApproved = (%q, %v)", tr, ok)
	}
	if _, ok, _ := c.LookupApproved(ctx, "Stop"); ok {
		t.Error("unexpected approved hit")
	}
}

func TestCacheRejectsEmptyKey(t *testing.T) {
	c := New(NewMemoryStore(), nil)
	if err := c.Put(context.Background(), " . ", "x", NotApproved); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestCacheFindByTranslationLastWins(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), nil)
	_ = c.Put(ctx, "Stój", "Стоп", NotApproved)
	_ = c.Put(ctx, "Stop", "Стоп", NotApproved)

	phrase, err := c.FindByTranslation(ctx, "Стоп")
	if err != nil {
		t.Fatalf("FindByTranslation failed: %v", err)
	}
	if phrase != "Stój" {
		t.Errorf("FindByTranslation = %q, want %q", phrase, "Stój")
	}
}

func TestCacheConcurrentPut(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := NotApproved
			if i%2 == 0 {
				state = Approved
			}
			_ = c.Put(ctx, "Stop", "Стоп", state)
		}(i)
	}
	wg.Wait()

	doc, err := c.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if doc.Len() != 1 {
		t.Errorf("phrase present %d times across buckets, want 1", doc.Len())
	}
}

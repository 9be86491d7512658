package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoadRunsLoaderOnce(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := Load(context.Background(), store, "feed:fixtures", func(context.Context) ([]string, error) {
				calls.Add(1)
				time.Sleep(20 * time.Millisecond)
				return []string{"Broadstreet vs Stamford"}, nil
			})
			if err != nil || len(v) != 1 {
				t.Errorf("unexpected load result v=%v err=%v", v, err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected loader once, got %d", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "feed:standings", 1)
	if _, ok := store.Get(context.Background(), "feed:standings"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "feed:standings"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_InvalidateByPrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	store.Set(ctx, "feed:fixtures:all", 1)
	store.Set(ctx, "feed:fixtures:upcoming", 2)
	store.Set(ctx, "feed:standings", 3)

	store.Invalidate(ctx, "feed:fixtures")

	if _, ok := store.Get(ctx, "feed:fixtures:all"); ok {
		t.Fatalf("expected fixtures entries to be dropped")
	}
	if _, ok := store.Get(ctx, "feed:standings"); !ok {
		t.Fatalf("expected standings entry to survive")
	}
}

func TestStore_LoaderErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("sheet unavailable")
	calls := 0
	loader := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	if _, err := Load(context.Background(), store, "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	v, err := Load(context.Background(), store, "k", loader)
	if err != nil || v != 7 {
		t.Fatalf("expected reload after error, got v=%d err=%v", v, err)
	}
}

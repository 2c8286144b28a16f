package lockmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
)

func newTestStore(t *testing.T) store.IStore {
	database := maple.NewMapleDB(nil)
	t.Cleanup(func() { database.Close() })
	return lstore.NewLocalStore(func() db.KVDB { return database })
}

func TestAcquireRelease(t *testing.T) {
	lm := NewLockManager(newTestStore(t))

	ok, owner, err := lm.AcquireLock("res", 0)
	if err != nil || !ok {
		t.Fatalf("Expected to acquire lock, got ok=%v err=%v", ok, err)
	}

	ok, _, err = lm.AcquireLock("res", 0)
	if err != nil || ok {
		t.Errorf("Second acquire should fail, got ok=%v err=%v", ok, err)
	}

	released, err := lm.ReleaseLock("res", []byte("someone else"))
	if err != nil || released {
		t.Errorf("Release with wrong owner should fail, got %v %v", released, err)
	}

	released, err = lm.ReleaseLock("res", owner)
	if err != nil || !released {
		t.Errorf("Release by owner should succeed, got %v %v", released, err)
	}

	released, err = lm.ReleaseLock("res", owner)
	if err != nil || !released {
		t.Errorf("Release of a free lock should report true, got %v %v", released, err)
	}
}

func TestSharedStore(t *testing.T) {
	s := newTestStore(t)
	a, b := NewLockManager(s), NewLockManager(s)

	if ok, _, _ := a.AcquireLock("res", 0); !ok {
		t.Fatalf("Expected a to acquire")
	}
	if ok, _, _ := b.AcquireLock("res", 0); ok {
		t.Errorf("b must see the lock taken by a")
	}
}

func TestLease(t *testing.T) {
	s := newTestStore(t)
	lm := NewLockManager(s)

	if ok, _, _ := lm.AcquireLock("res", 3); !ok {
		t.Fatalf("Expected to acquire")
	}
	// each failed attempt is a store write and moves the lease forward
	for i := 0; i < 2; i++ {
		if ok, _, _ := lm.AcquireLock("res", 3); ok {
			t.Fatalf("Lock should still be held after %d attempts", i+1)
		}
	}
	if ok, _, _ := lm.AcquireLock("res", 3); !ok {
		t.Errorf("Lock should be free once the lease ran out")
	}
}

func TestHoldsLock(t *testing.T) {
	s := newTestStore(t)
	lm := NewLockManager(s)

	ok, owner, _ := lm.AcquireLock("res", 2)
	if !ok {
		t.Fatalf("Expected to acquire")
	}
	if held, err := lm.HoldsLock("res", owner); err != nil || !held {
		t.Errorf("HoldsLock() = (%v, %v), want held", held, err)
	}
	if held, _ := lm.HoldsLock("res", []byte("someone else")); held {
		t.Errorf("HoldsLock with a foreign owner should be false")
	}

	// two unrelated writes use up the lease
	s.Set("x", []byte("1"))
	s.Set("y", []byte("2"))
	if held, err := lm.HoldsLock("res", owner); err != nil || held {
		t.Errorf("HoldsLock after the lease ran out = (%v, %v), want false", held, err)
	}
}

func TestAcquireTimeout(t *testing.T) {
	lm := NewLockManagerWithBackoff(newTestStore(t), Backoff{Min: time.Millisecond, Max: 5 * time.Millisecond})

	if _, err := lm.Acquire(context.Background(), "res", 0); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := lm.Acquire(ctx, "res", 0)

	var se *store.Error
	if !errors.As(err, &se) || se.Code != store.RetCConflict {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	lm := NewLockManager(newTestStore(t))

	owner, err := lm.Acquire(context.Background(), "res", 0)
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		lm.ReleaseLock("res", owner)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := lm.Acquire(ctx, "res", 0); err != nil {
		t.Errorf("Expected to acquire after release, got %v", err)
	}
}

func TestMutualExclusion(t *testing.T) {
	lm := NewLockManager(newTestStore(t))

	const workers = 8
	const rounds = 50
	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				owner, err := lm.Acquire(context.Background(), "counter", 0)
				if err != nil {
					t.Errorf("acquire failed: %v", err)
					return
				}
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				lm.ReleaseLock("counter", owner)
			}
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("Expected at most one holder at a time, saw %d", maxSeen)
	}
}

func TestNextBackoff(t *testing.T) {
	if got := nextBackoff(time.Millisecond, 10*time.Millisecond); got != 2*time.Millisecond {
		t.Errorf("nextBackoff = %v, want 2ms", got)
	}
	if got := nextBackoff(8*time.Millisecond, 10*time.Millisecond); got != 10*time.Millisecond {
		t.Errorf("nextBackoff = %v, want cap 10ms", got)
	}
}

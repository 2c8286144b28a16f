package storetesting

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/store"
)

// StoreFactory creates a fresh, empty store for one test
type StoreFactory func(t *testing.T) store.IStore

// RunStoreTests runs the conformance suite every store.IStore implementation has to pass.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("SetIfUnset", func(t *testing.T) {
			testSetIfUnset(t, factory(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t))
		})

		t.Run("Lease", func(t *testing.T) {
			testLease(t, factory(t))
		})

		t.Run("ConcurrentSetIfUnset", func(t *testing.T) {
			testConcurrentSetIfUnset(t, factory(t))
		})

		t.Run("BinaryKeys", func(t *testing.T) {
			testBinaryKeys(t, factory(t))
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory(t))
		})
	})
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func testSetGet(t *testing.T, s store.IStore) {
	must(t, s.Set("k1", []byte("v1")))

	value, ok, err := s.Get("k1")
	must(t, err)
	if !ok || !bytes.Equal(value, []byte("v1")) {
		t.Errorf("Expected v1, got %s (ok=%v)", value, ok)
	}

	must(t, s.Set("k1", []byte("v2")))
	value, _, err = s.Get("k1")
	must(t, err)
	if !bytes.Equal(value, []byte("v2")) {
		t.Errorf("Set should overwrite, got %s", value)
	}

	_, ok, err = s.Get("missing")
	must(t, err)
	if ok {
		t.Errorf("Expected missing key to be absent")
	}

	must(t, s.Set("empty", nil))
	value, ok, err = s.Get("empty")
	must(t, err)
	if !ok || len(value) != 0 {
		t.Errorf("Expected empty value to be present, got %v (ok=%v)", value, ok)
	}

	has, err := s.Has("k1")
	must(t, err)
	if !has {
		t.Errorf("Has should be true for k1")
	}
}

func testSetIfUnset(t *testing.T, s store.IStore) {
	inserted, err := s.SetIfUnset("unique", []byte("first"), 0)
	must(t, err)
	if !inserted {
		t.Errorf("First SetIfUnset should insert")
	}

	inserted, err = s.SetIfUnset("unique", []byte("second"), 0)
	must(t, err)
	if inserted {
		t.Errorf("Second SetIfUnset should not insert")
	}

	value, _, err := s.Get("unique")
	must(t, err)
	if !bytes.Equal(value, []byte("first")) {
		t.Errorf("Existing value must be kept, got %s", value)
	}
}

func testDelete(t *testing.T, s store.IStore) {
	must(t, s.Set("del", []byte("x")))

	deleted, err := s.Delete("del")
	must(t, err)
	if !deleted {
		t.Errorf("Delete should report an existing key")
	}

	deleted, err = s.Delete("del")
	must(t, err)
	if deleted {
		t.Errorf("Delete should report false for a missing key")
	}

	has, err := s.Has("del")
	must(t, err)
	if has {
		t.Errorf("Has should be false after Delete")
	}
}

func testLease(t *testing.T, s store.IStore) {
	inserted, err := s.SetIfUnset("lease", []byte("owner-a"), 3)
	must(t, err)
	if !inserted {
		t.Fatalf("SetIfUnset should insert")
	}

	// the lease is still live for the next two writes
	for i := 0; i < 2; i++ {
		must(t, s.Set(fmt.Sprintf("tick-%d", i), nil))
		has, err := s.Has("lease")
		must(t, err)
		if !has {
			t.Errorf("Lease should be live after %d writes", i+1)
		}
	}

	must(t, s.Set("tick-2", nil))
	has, err := s.Has("lease")
	must(t, err)
	if has {
		t.Errorf("Lease should have run out after 3 writes")
	}

	inserted, err = s.SetIfUnset("lease", []byte("owner-b"), 0)
	must(t, err)
	if !inserted {
		t.Errorf("Expired entry should be replaceable")
	}
	value, _, err := s.Get("lease")
	must(t, err)
	if !bytes.Equal(value, []byte("owner-b")) {
		t.Errorf("Expected owner-b, got %s", value)
	}
}

func testConcurrentSetIfUnset(t *testing.T, s store.IStore) {
	const workers = 16
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inserted, err := s.SetIfUnset("race", []byte(fmt.Sprint(i)), 0)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if inserted {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("Expected exactly one winner, got %d", winners.Load())
	}
}

func testBinaryKeys(t *testing.T, s store.IStore) {
	k1 := string([]byte{0x01, 0x00, 0xff})
	k2 := string([]byte{0x01, 0x00, 0xfe})
	must(t, s.Set(k1, []byte("a")))
	must(t, s.Set(k2, []byte("b")))

	v1, _, err := s.Get(k1)
	must(t, err)
	v2, _, err := s.Get(k2)
	must(t, err)
	if !bytes.Equal(v1, []byte("a")) || !bytes.Equal(v2, []byte("b")) {
		t.Errorf("Binary keys must not collide, got %s and %s", v1, v2)
	}
}

func testInfo(t *testing.T, s store.IStore) {
	must(t, s.Set("a", nil))
	must(t, s.Set("b", nil))

	info, err := s.GetDBInfo()
	must(t, err)
	if info.Entries != 2 {
		t.Errorf("Expected 2 entries, got %d", info.Entries)
	}
}

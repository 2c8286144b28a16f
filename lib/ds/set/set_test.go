package set

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
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

func newTestSet(t *testing.T) *Set {
	return New(ckv.NewTable(newTestStore(t), codec.NewBinaryCodec(), ckv.DefaultOptions()))
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddIdempotent(t *testing.T) {
	s := newTestSet(t)

	if added, _ := s.Add("s", "x"); !added {
		t.Errorf("first Add should report true")
	}
	if added, _ := s.Add("s", "x"); added {
		t.Errorf("second Add should report false")
	}
	if n, _ := s.Cardinality("s"); n != 1 {
		t.Errorf("Cardinality() = %d, want 1", n)
	}
	if ok, _ := s.Contains("s", "x"); !ok {
		t.Errorf("Contains() should be true")
	}
}

func TestRemove(t *testing.T) {
	s := newTestSet(t)
	for _, m := range []string{"a", "b", "c"} {
		s.Add("s", m)
	}

	if removed, _ := s.Remove("s", "b"); !removed {
		t.Errorf("Remove of a member should report true")
	}
	if removed, _ := s.Remove("s", "b"); removed {
		t.Errorf("second Remove should report false")
	}
	if ok, _ := s.Contains("s", "b"); ok {
		t.Errorf("removed member should not be contained")
	}
	if got, _ := s.Members("s"); !equal(got, []string{"a", "c"}) {
		t.Errorf("Members() = %v, want [a c]", got)
	}
	if n, _ := s.Cardinality("s"); n != 2 {
		t.Errorf("Cardinality() = %d, want 2", n)
	}

	// a removed member can be added again
	if added, _ := s.Add("s", "b"); !added {
		t.Errorf("Add after Remove should report true")
	}
}

func TestAlgebra(t *testing.T) {
	s := newTestSet(t)
	for _, m := range []string{"a", "b", "c", "d"} {
		s.Add("x", m)
	}
	for _, m := range []string{"c", "d", "e"} {
		s.Add("y", m)
	}

	tests := []struct {
		name string
		op   func(a, b string) ([]string, error)
		a, b string
		want []string
	}{
		{"intersect", s.Intersect, "x", "y", []string{"c", "d"}},
		{"intersect reversed", s.Intersect, "y", "x", []string{"c", "d"}},
		{"intersect self", s.Intersect, "x", "x", []string{"a", "b", "c", "d"}},
		{"intersect empty", s.Intersect, "x", "none", []string{}},
		{"union", s.Union, "x", "y", []string{"a", "b", "c", "d", "e"}},
		{"diff", s.Diff, "x", "y", []string{"a", "b"}},
		{"diff reversed", s.Diff, "y", "x", []string{"e"}},
		{"diff self", s.Diff, "x", "x", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcurrentAdd(t *testing.T) {
	s := newTestSet(t)

	const workers, members = 8, 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < members; i++ {
				ok, err := s.Add("s", fmt.Sprint(i))
				if err != nil {
					t.Errorf("Add() error = %v", err)
				}
				if ok {
					mu.Lock()
					added++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if added != members {
		t.Errorf("%d adds reported true, want %d", added, members)
	}
	if n, _ := s.Cardinality("s"); n != members {
		t.Errorf("Cardinality() = %d, want %d", n, members)
	}
}

func TestConcurrentAlgebra(t *testing.T) {
	s := newTestSet(t)
	s.Add("p", "1")
	s.Add("q", "1")

	// opposite argument orders must not deadlock
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := s.Intersect("p", "q"); err != nil {
				t.Errorf("Intersect(p, q) error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Union("q", "p"); err != nil {
				t.Errorf("Union(q, p) error = %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestMembersWithArbitraryBytes(t *testing.T) {
	for _, c := range []codec.ICodec{codec.NewBinaryCodec(), codec.NewJSONCodec(), codec.NewGOBCodec()} {
		t.Run(c.Name(), func(t *testing.T) {
			s := New(ckv.NewTable(newTestStore(t), c, ckv.DefaultOptions()))
			all := []string{"a", "\xfe\x00", "\xff"}
			for _, m := range all {
				s.Add("s", m)
			}

			if got, _ := s.Members("s"); !equal(got, all) {
				t.Errorf("Members() = %q, want %q", got, all)
			}
			for _, m := range all {
				removed, err := s.Remove("s", m)
				if err != nil || !removed {
					t.Errorf("Remove(%q) = (%v, %v), want removed", m, removed, err)
				}
				if ok, _ := s.Contains("s", m); ok {
					t.Errorf("Contains(%q) after Remove should be false", m)
				}
			}
			if n, _ := s.Cardinality("s"); n != 0 {
				t.Errorf("Cardinality() = %d, want 0", n)
			}
		})
	}
}

// faultyStore fails the n-th Set or Delete after it was armed
type faultyStore struct {
	store.IStore
	mu     sync.Mutex
	writes int
	failAt int
}

var errInjected = errors.New("injected failure")

func (f *faultyStore) arm(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes, f.failAt = 0, n
}

func (f *faultyStore) fail() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	return f.failAt != 0 && f.writes == f.failAt
}

func (f *faultyStore) Set(key string, value []byte) error {
	if f.fail() {
		return errInjected
	}
	return f.IStore.Set(key, value)
}

func (f *faultyStore) Delete(key string) (bool, error) {
	if f.fail() {
		return false, errInjected
	}
	return f.IStore.Delete(key)
}

func TestFailedWriteChangesNothing(t *testing.T) {
	fs := &faultyStore{IStore: newTestStore(t)}
	s := New(ckv.NewTable(fs, codec.NewBinaryCodec(), ckv.DefaultOptions()))
	s.Add("s", "a")
	s.Add("s", "b")

	check := func(t *testing.T) {
		t.Helper()
		if got, _ := s.Members("s"); !equal(got, []string{"a", "b"}) {
			t.Errorf("Members() = %v, want [a b]", got)
		}
		if ok, _ := s.Contains("s", "c"); ok {
			t.Errorf("c must not be in the set")
		}
	}

	// Add writes the index slot and the index length
	for _, failAt := range []int{1, 2} {
		t.Run(fmt.Sprintf("add fails at write %d", failAt), func(t *testing.T) {
			fs.arm(failAt)
			added, err := s.Add("s", "c")
			fs.arm(0)
			if !errors.Is(err, errInjected) || added {
				t.Errorf("Add() = (%v, %v), want (false, injected failure)", added, err)
			}
			check(t)
		})
	}

	// removing slot 0 of two deletes the marker and moves b into the freed slot
	for failAt := 1; failAt <= 6; failAt++ {
		t.Run(fmt.Sprintf("remove fails at write %d", failAt), func(t *testing.T) {
			fs.arm(failAt)
			removed, err := s.Remove("s", "a")
			fs.arm(0)
			if !errors.Is(err, errInjected) || removed {
				t.Errorf("Remove() = (%v, %v), want (false, injected failure)", removed, err)
			}
			check(t)
		})
	}
}

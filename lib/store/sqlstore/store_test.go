package sqlstore

import (
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/ValentinKolb/dStruct/lib/store/storetesting"
)

func TestSQLStore(t *testing.T) {
	storetesting.RunStoreTests(t, "SQLStore", func(t *testing.T) store.IStore {
		s, err := NewSQLStore(filepath.Join(t.TempDir(), "entries.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "entries.db")

	s, err := NewSQLStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("persisted", []byte("yes")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetIfUnset("leased", []byte("x"), 2); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	value, ok, err := s.Get("persisted")
	if err != nil || !ok || string(value) != "yes" {
		t.Errorf("Expected persisted value, got %s (ok=%v, err=%v)", value, ok, err)
	}
	if s.index.Load() != 2 {
		t.Errorf("Expected write index 2 after reopen, got %d", s.index.Load())
	}

	// the lease keeps counting from the restored index
	if ok, _ := s.Has("leased"); !ok {
		t.Errorf("Leased key should still be live")
	}
	_ = s.Set("tick", nil)
	_ = s.Set("tick", nil)
	if ok, _ := s.Has("leased"); ok {
		t.Errorf("Lease should have run out")
	}
}

func TestInMemory(t *testing.T) {
	s, err := NewSQLStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Set("a", []byte("b")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Has("a"); !ok {
		t.Errorf("Expected key in memory database")
	}
}

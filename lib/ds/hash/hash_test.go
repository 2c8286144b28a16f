package hash

import (
	"testing"

	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
)

func newTestHash(t *testing.T, c codec.ICodec) *Hash {
	database := maple.NewMapleDB(nil)
	t.Cleanup(func() { database.Close() })
	s := lstore.NewLocalStore(func() db.KVDB { return database })
	return New(ckv.NewTable(s, c, ckv.DefaultOptions()))
}

func TestHash(t *testing.T) {
	for _, c := range []codec.ICodec{codec.NewBinaryCodec(), codec.NewJSONCodec(), codec.NewGOBCodec()} {
		t.Run(c.Name(), func(t *testing.T) {
			h := newTestHash(t, c)

			if created, _ := h.Set("user:1", "name", []byte("alice")); !created {
				t.Errorf("Set of a new field should report created")
			}
			if created, _ := h.Set("user:1", "name", []byte("bob")); created {
				t.Errorf("Set of an existing field should not report created")
			}
			if v, ok, _ := h.Get("user:1", "name"); !ok || string(v) != "bob" {
				t.Errorf("Get() = (%q, %v), want bob", v, ok)
			}

			if created, _ := h.SetIfAbsent("user:1", "name", []byte("carol")); created {
				t.Errorf("SetIfAbsent on an existing field should report false")
			}
			if created, _ := h.SetIfAbsent("user:1", "age", []byte("30")); !created {
				t.Errorf("SetIfAbsent on a new field should report true")
			}
			if v, _, _ := h.Get("user:1", "name"); string(v) != "bob" {
				t.Errorf("SetIfAbsent must not overwrite, got %s", v)
			}

			if ok, _ := h.Exists("user:1", "age"); !ok {
				t.Errorf("Exists(age) should be true")
			}
			if n, _ := h.Len("user:1"); n != 2 {
				t.Errorf("Len() = %d, want 2", n)
			}
			if got, _ := h.Fields("user:1"); len(got) != 2 || got[0] != "age" || got[1] != "name" {
				t.Errorf("Fields() = %v, want [age name]", got)
			}

			all, err := h.GetAll("user:1")
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 2 || string(all["age"]) != "30" || string(all["name"]) != "bob" {
				t.Errorf("GetAll() = %v", all)
			}

			if removed, _ := h.Delete("user:1", "age"); !removed {
				t.Errorf("Delete should report true")
			}
			if removed, _ := h.Delete("user:1", "age"); removed {
				t.Errorf("second Delete should report false")
			}
			if _, ok, _ := h.Get("user:1", "age"); ok {
				t.Errorf("deleted field should be absent")
			}
			if n, _ := h.Len("user:1"); n != 1 {
				t.Errorf("Len() = %d, want 1", n)
			}
		})
	}
}

func TestMissingHash(t *testing.T) {
	h := newTestHash(t, codec.NewBinaryCodec())

	if _, ok, _ := h.Get("none", "f"); ok {
		t.Errorf("Get on a missing hash should report absent")
	}
	if n, _ := h.Len("none"); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
	if all, _ := h.GetAll("none"); len(all) != 0 {
		t.Errorf("GetAll() = %v, want empty", all)
	}
}

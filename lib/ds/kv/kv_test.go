package kv

import (
	"testing"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
)

func newTestTable(t *testing.T, c codec.ICodec) *ckv.Table {
	database := maple.NewMapleDB(nil)
	t.Cleanup(func() { database.Close() })
	s := lstore.NewLocalStore(func() db.KVDB { return database })
	return ckv.NewTable(s, c, ckv.DefaultOptions())
}

func TestKeyValue(t *testing.T) {
	for _, c := range []codec.ICodec{codec.NewBinaryCodec(), codec.NewJSONCodec(), codec.NewGOBCodec()} {
		t.Run(c.Name(), func(t *testing.T) {
			kv := New(newTestTable(t, c))

			if err := kv.Set("user:123", []byte("John Doe")); err != nil {
				t.Fatal(err)
			}
			if v, ok, err := kv.Get("user:123"); err != nil || !ok || string(v) != "John Doe" {
				t.Errorf("Get() = (%q, %v, %v), want John Doe", v, ok, err)
			}
			if ok, _ := kv.Exists("user:123"); !ok {
				t.Errorf("Exists() should be true")
			}

			if err := kv.Set("user:123", []byte("Jane")); err != nil {
				t.Fatal(err)
			}
			if v, _, _ := kv.Get("user:123"); string(v) != "Jane" {
				t.Errorf("Set should overwrite, got %q", v)
			}

			if created, _ := kv.SetIfAbsent("user:123", []byte("x")); created {
				t.Errorf("SetIfAbsent on an existing key should report false")
			}
			if created, _ := kv.SetIfAbsent("user:456", []byte("x")); !created {
				t.Errorf("SetIfAbsent on a new key should report true")
			}

			if removed, err := kv.Delete("user:123"); err != nil || !removed {
				t.Errorf("Delete() = (%v, %v), want removed", removed, err)
			}
			if removed, _ := kv.Delete("user:123"); removed {
				t.Errorf("second Delete should report false")
			}
			if _, ok, _ := kv.Get("user:123"); ok {
				t.Errorf("Get after Delete should report absent")
			}
		})
	}
}

func TestEmptyValue(t *testing.T) {
	kv := New(newTestTable(t, codec.NewBinaryCodec()))

	kv.Set("k", nil)
	v, ok, err := kv.Get("k")
	if err != nil || !ok || v == nil || len(v) != 0 {
		t.Errorf("Get() = (%v, %v, %v), want an empty non-nil value", v, ok, err)
	}
}

func TestSeparateFromCollections(t *testing.T) {
	table := newTestTable(t, codec.NewBinaryCodec())
	kv := New(table)

	// a hash with the same name lives in another key space
	table.Put(ckey.New(ckey.KindHashField, "k", ckey.Str("f")), codec.Record{Value: []byte("v")})
	if ok, _ := kv.Exists("k"); ok {
		t.Errorf("a hash named k must not be visible as key k")
	}
}

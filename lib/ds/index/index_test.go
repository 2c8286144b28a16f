package index

import (
	"sort"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
)

func newTestTable(t *testing.T) *ckv.Table {
	database := maple.NewMapleDB(nil)
	t.Cleanup(func() { database.Close() })
	s := lstore.NewLocalStore(func() db.KVDB { return database })
	return ckv.NewTable(s, codec.NewBinaryCodec(), ckv.DefaultOptions())
}

func sorted(members []string) []string {
	out := append([]string{}, members...)
	sort.Strings(out)
	return out
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

// checkDense verifies that slots and positions agree
func checkDense(t *testing.T, tbl *ckv.Table, x Index, name string) {
	t.Helper()
	members, err := x.Members(tbl, name)
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	for i, m := range members {
		rec, ok, _ := tbl.Get(x.posKey(name, m))
		if !ok || rec.Pos != int64(i) {
			t.Errorf("member %q in slot %d has position %d (ok=%v)", m, i, rec.Pos, ok)
		}
	}
	if ok, _ := tbl.Contains(x.slotKey(name, int64(len(members)))); ok {
		t.Errorf("slot %d should not exist", len(members))
	}
}

func TestInsertDelete(t *testing.T) {
	tbl := newTestTable(t)
	x := New(ckey.KindSetIndex)

	for _, m := range []string{"a", "b", "c", "d"} {
		if err := x.Insert(tbl, "s", m); err != nil {
			t.Fatal(err)
		}
	}
	// duplicate insert is a no-op
	_ = x.Insert(tbl, "s", "b")
	checkDense(t, tbl, x, "s")

	if n, _ := x.Len(tbl, "s"); n != 4 {
		t.Errorf("Len = %d, want 4", n)
	}

	tests := []struct {
		remove string
		want   []string
	}{
		{"b", []string{"a", "c", "d"}}, // middle: last moves into the hole
		{"d", []string{"a", "c"}},      // last slot
		{"a", []string{"c"}},           // first slot
		{"x", []string{"c"}},           // not indexed
		{"c", []string{}},
	}
	for _, tt := range tests {
		t.Run("delete "+tt.remove, func(t *testing.T) {
			if err := x.Delete(tbl, "s", tt.remove); err != nil {
				t.Fatal(err)
			}
			members, _ := x.Members(tbl, "s")
			if !equal(sorted(members), tt.want) {
				t.Errorf("Members = %v, want %v", members, tt.want)
			}
			checkDense(t, tbl, x, "s")
		})
	}

	if ok, _ := tbl.Contains(x.lenKey("s")); ok {
		t.Errorf("length record should be removed when the index is empty")
	}
}

func TestCollectionsAreSeparate(t *testing.T) {
	tbl := newTestTable(t)
	x := New(ckey.KindSetIndex)
	y := New(ckey.KindHashIndex)

	_ = x.Insert(tbl, "s1", "a")
	_ = x.Insert(tbl, "s2", "b")
	_ = y.Insert(tbl, "s1", "c")

	if members, _ := x.Members(tbl, "s1"); !equal(members, []string{"a"}) {
		t.Errorf("s1 = %v", members)
	}
	if has, _ := x.Has(tbl, "s1", "c"); has {
		t.Errorf("indexes of different kinds must not share members")
	}
}

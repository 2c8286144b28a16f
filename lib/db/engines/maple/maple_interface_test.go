package maple

import (
	"testing"
	"time"

	"github.com/ValentinKolb/dStruct/lib/db"
	dbtesting "github.com/ValentinKolb/dStruct/lib/db/testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "MapleDB", func() db.KVDB {
		return NewMapleDB(&DBOptions{NumShards: 8, GCInterval: 10 * time.Millisecond})
	})
}

func TestInfo(t *testing.T) {
	database := NewMapleDB(&DBOptions{NumShards: 4})
	defer database.Close()

	database.Set("a", []byte("1"), 1)
	database.SetIfUnset("b", []byte("2"), 2, 100)

	info := database.GetInfo()
	if info.Entries != 2 {
		t.Errorf("Expected 2 entries, got %d", info.Entries)
	}
	if info.DbType != db.ImplMaple {
		t.Errorf("Expected db type %s, got %s", db.ImplMaple, info.DbType)
	}
	if !database.SupportsFeature(db.FeatureSetIfUnset | db.FeatureSave) {
		t.Errorf("Maple should support SetIfUnset and Save")
	}
}

func TestCloseTwice(t *testing.T) {
	database := NewMapleDB(nil)
	if err := database.Close(); err != nil {
		t.Fatal(err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}
}

func Benchmark(t *testing.B) {
	dbtesting.RunKVDBBenchmarks(t, "MapleDB", func() db.KVDB {
		return NewMapleDB(nil)
	})
}

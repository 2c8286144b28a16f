package testing

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dStruct/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("StaleWrite", func(t *testing.T) {
			testStaleWrite(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("SetIfUnset", func(t *testing.T) {
			testSetIfUnset(t, factory())
		})

		t.Run("Lease", func(t *testing.T) {
			testLease(t, factory())
		})

		t.Run("LeaseCollected", func(t *testing.T) {
			testLeaseCollected(t, factory())
		})

		t.Run("ConcurrentSetIfUnset", func(t *testing.T) {
			testConcurrentSetIfUnset(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	database.Set(testKey, testValue1, 1)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}
	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	database.Set(testKey, testValue2, 2)

	result, _ = database.Get(testKey)
	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s, got %s", testValue2, result)
	}

	if _, exists = database.Get("nonexistent-key"); exists {
		t.Errorf("Expected nonexistent key to return exists=false")
	}

	retrievedValue, _ := database.Get(testKey)
	retrievedValue[0] = 'X'

	originalValue, _ := database.Get(testKey)
	if bytes.Equal(retrievedValue, originalValue) {
		t.Errorf("Get should return a copy, not a reference to the stored value")
	}

	input := []byte("mutable")
	database.Set("mutable-key", input, 3)
	input[0] = 'X'
	if stored, _ := database.Get("mutable-key"); !bytes.Equal(stored, []byte("mutable")) {
		t.Errorf("Set should copy the value, got %s", stored)
	}
}

func testStaleWrite(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	database.Set("stale", []byte("new"), 10)
	database.Set("stale", []byte("old"), 5)

	if result, _ := database.Get("stale"); !bytes.Equal(result, []byte("new")) {
		t.Errorf("Write with lower index must be ignored, got %s", result)
	}

	if database.WriteIdx() != 10 {
		t.Errorf("Expected write index 10, got %d", database.WriteIdx())
	}

	database.SetWriteIdx(3)
	if database.WriteIdx() != 10 {
		t.Errorf("Write index must not move backwards, got %d", database.WriteIdx())
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet|db.FeatureDelete)

	database.Set("delete-key", []byte("value"), 1)

	if !database.Delete("delete-key", 2) {
		t.Errorf("Delete should report an existing key as deleted")
	}
	if _, exists := database.Get("delete-key"); exists {
		t.Errorf("Key should not exist after Delete")
	}
	if database.Delete("delete-key", 3) {
		t.Errorf("Second Delete should report false")
	}
	if database.Delete("never-set", 4) {
		t.Errorf("Delete of a missing key should report false")
	}

	// a deleted key can be written again
	database.Set("delete-key", []byte("again"), 5)
	if result, _ := database.Get("delete-key"); !bytes.Equal(result, []byte("again")) {
		t.Errorf("Expected value again, got %s", result)
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureHas|db.FeatureDelete)

	if database.Has("has-key") {
		t.Errorf("Has should be false for a missing key")
	}

	database.Set("has-key", []byte{}, 1)
	if !database.Has("has-key") {
		t.Errorf("Has should be true for a key with an empty value")
	}

	database.Delete("has-key", 2)
	if database.Has("has-key") {
		t.Errorf("Has should be false after Delete")
	}
}

func testSetIfUnset(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSetIfUnset|db.FeatureGet)

	if !database.SetIfUnset("unset-key", []byte("first"), 1, 0) {
		t.Errorf("SetIfUnset should insert a missing key")
	}
	if database.SetIfUnset("unset-key", []byte("second"), 2, 0) {
		t.Errorf("SetIfUnset should not overwrite an existing key")
	}
	if result, _ := database.Get("unset-key"); !bytes.Equal(result, []byte("first")) {
		t.Errorf("Expected value first, got %s", result)
	}

	database.Delete("unset-key", 3)
	if !database.SetIfUnset("unset-key", []byte("third"), 4, 0) {
		t.Errorf("SetIfUnset should insert after Delete")
	}
}

func testLease(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSetIfUnset|db.FeatureGet|db.FeatureHas)

	database.SetIfUnset("lease-key", []byte("held"), 100, 10)

	database.SetWriteIdx(109)
	if _, exists := database.Get("lease-key"); !exists {
		t.Errorf("Key should still exist at index 109 (get)")
	}
	if !database.Has("lease-key") {
		t.Errorf("Key should still exist at index 109 (has)")
	}
	if database.SetIfUnset("lease-key", []byte("other"), 109, 10) {
		t.Errorf("SetIfUnset must fail while the lease is live")
	}

	database.SetWriteIdx(110)
	if _, exists := database.Get("lease-key"); exists {
		t.Errorf("Key should be gone at index 110 (get)")
	}
	if database.Has("lease-key") {
		t.Errorf("Key should be gone at index 110 (has)")
	}

	// an expired entry can be taken over
	if !database.SetIfUnset("lease-key", []byte("next"), 111, 0) {
		t.Errorf("SetIfUnset should replace an expired entry")
	}
	database.SetWriteIdx(10_000)
	if result, _ := database.Get("lease-key"); !bytes.Equal(result, []byte("next")) {
		t.Errorf("Entry without lease should never expire, got %s", result)
	}
}

func testLeaseCollected(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSetIfUnset|db.FeatureGarbageCollect)

	numKeys := 500
	for i := 0; i < numKeys; i++ {
		database.SetIfUnset(fmt.Sprintf("gc-key-%d", i), []byte("v"), 1, uint64(1+i%10))
	}
	database.Set("keep", []byte("v"), 2)
	database.SetWriteIdx(100)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if database.GetInfo().Entries == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("Expected expired entries to be collected, %d entries left", database.GetInfo().Entries)
}

func testConcurrentSetIfUnset(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSetIfUnset)

	const workers = 32
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		index   atomic.Uint64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if database.SetIfUnset("contended", []byte(fmt.Sprint(i)), index.Add(1), 0) {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("Expected exactly one winner, got %d", winners.Load())
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	source := factory()
	defer source.Close()

	requireFeature(t, source, db.FeatureSave|db.FeatureLoad|db.FeatureSet|db.FeatureSetIfUnset)

	for i := 0; i < 100; i++ {
		source.Set(fmt.Sprintf("key-%d", i), []byte(fmt.Sprintf("value-%d", i)), uint64(i+1))
	}
	source.SetIfUnset("leased", []byte("x"), 101, 50)

	var buf bytes.Buffer
	if err := source.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	target := factory()
	defer target.Close()
	if err := target.Load(&buf); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		result, exists := target.Get(key)
		if !exists || !bytes.Equal(result, []byte(fmt.Sprintf("value-%d", i))) {
			t.Errorf("Key %s not restored correctly: %s", key, result)
		}
	}

	if target.WriteIdx() < 101 {
		t.Errorf("Write index should be restored, got %d", target.WriteIdx())
	}
	if !target.Has("leased") {
		t.Errorf("Leased key should be restored")
	}
	target.SetWriteIdx(151)
	if target.Has("leased") {
		t.Errorf("Lease should survive Save/Load")
	}

	if err := target.Load(bytes.NewReader([]byte("garbage!"))); err == nil {
		t.Errorf("Load should reject invalid data")
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet|db.FeatureGet)

	database.Set("", []byte("empty-key"), 1)
	if result, exists := database.Get(""); !exists || !bytes.Equal(result, []byte("empty-key")) {
		t.Errorf("Empty key should be usable")
	}

	database.Set("nil-value", nil, 2)
	if result, exists := database.Get("nil-value"); !exists || len(result) != 0 {
		t.Errorf("Nil value should be stored as empty value")
	}

	binaryKey := string([]byte{0x00, 0xff, 0x10, 0x00})
	database.Set(binaryKey, []byte("binary"), 3)
	if result, _ := database.Get(binaryKey); !bytes.Equal(result, []byte("binary")) {
		t.Errorf("Binary keys should be supported")
	}

	largeValue := bytes.Repeat([]byte("x"), 1<<20)
	database.Set("large", largeValue, 4)
	if result, _ := database.Get("large"); !bytes.Equal(result, largeValue) {
		t.Errorf("Large value not stored correctly")
	}
}

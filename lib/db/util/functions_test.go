package util

import (
	"fmt"
	"testing"
)

func TestHashString(t *testing.T) {
	if HashString("key", 1) != HashString("key", 1) {
		t.Errorf("HashString must be deterministic")
	}
	if HashString("key", 1) == HashString("key", 2) {
		t.Errorf("different seeds should give different hashes")
	}

	// keys that only differ in the last byte must not collide
	seen := make(map[UintKey]string)
	for i := 0; i < 10_000; i++ {
		key := fmt.Sprintf("\x01\x04todo\x01%08d", i)
		h := HashString(key, 42)
		if other, ok := seen[h]; ok {
			t.Fatalf("%q and %q collide", key, other)
		}
		seen[h] = key
	}
}

// Package storetesting provides the conformance suite for store.IStore implementations.
//
// Example usage:
//
//	storetesting.RunStoreTests(t, "LocalStore", func(t *testing.T) store.IStore {
//		return lstore.NewLocalStore(func() db.KVDB { return maple.NewMapleDB(nil) })
//	})
package storetesting

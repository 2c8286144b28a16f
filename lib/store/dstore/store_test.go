package dstore

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/ValentinKolb/dStruct/lib/store/storetesting"
)

var nextPort atomic.Int32

func init() {
	nextPort.Store(26100)
}

func TestDistributedStore(t *testing.T) {
	if testing.Short() {
		t.Skip("starts a raft node")
	}

	storetesting.RunStoreTests(t, "DistributedStore", func(t *testing.T) store.IStore {
		conf := DefaultNodeConfig(t.TempDir())
		conf.RaftAddress = fmt.Sprintf("localhost:%d", nextPort.Add(1))

		nh, s, err := StartNode(conf, func() db.KVDB { return maple.NewMapleDB(nil) })
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(nh.Close)
		return s
	})
}

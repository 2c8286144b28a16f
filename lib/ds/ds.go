package ds

import (
	"fmt"

	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/ds/hash"
	"github.com/ValentinKolb/dStruct/lib/ds/kv"
	"github.com/ValentinKolb/dStruct/lib/ds/list"
	"github.com/ValentinKolb/dStruct/lib/ds/queue"
	"github.com/ValentinKolb/dStruct/lib/ds/set"
	"github.com/ValentinKolb/dStruct/lib/ds/zset"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("dstruct")

// DS bundles all data structures that share one store
type DS struct {
	table *ckv.Table
	list  *list.List
	queue *queue.Queue
	set   *set.Set
	zset  *zset.ZSet
	hash  *hash.Hash
	kv    *kv.KV
}

// New creates the data structures on top of s. All structures share one table, so
// they use the same codec and locking options.
func New(s store.IStore, conf common.Config) (*DS, error) {
	c, err := codec.ByName(conf.Codec)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if conf.LockWait <= 0 {
		return nil, fmt.Errorf("invalid config: lock wait must be positive, got %s", conf.LockWait)
	}
	if conf.RetryMin <= 0 || conf.RetryMax < conf.RetryMin {
		return nil, fmt.Errorf("invalid config: retry backoff %s - %s", conf.RetryMin, conf.RetryMax)
	}

	table := ckv.NewTable(s, c, conf.TableOptions())
	log.Debugf("data structures ready (codec=%s, lock lease=%d, lock wait=%s)", c.Name(), conf.LockLease, conf.LockWait)

	return &DS{
		table: table,
		list:  list.New(table),
		queue: queue.New(table),
		set:   set.New(table),
		zset:  zset.New(table),
		hash:  hash.New(table),
		kv:    kv.New(table),
	}, nil
}

func (d *DS) List() *list.List    { return d.list }
func (d *DS) Queue() *queue.Queue { return d.queue }
func (d *DS) Set() *set.Set       { return d.set }
func (d *DS) ZSet() *zset.ZSet    { return d.zset }
func (d *DS) Hash() *hash.Hash    { return d.hash }
func (d *DS) KV() *kv.KV          { return d.kv }

// Store returns the store all structures write to
func (d *DS) Store() store.IStore { return d.table.Store() }

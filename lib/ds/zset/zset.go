package zset

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/ds/index"
	"github.com/ValentinKolb/dStruct/lib/store"
)

const structure = "zset"

var members = index.New(ckey.KindZSetIndex)

// Entry is a member together with its score
type Entry struct {
	Member string  `json:"member" yaml:"member"`
	Score  float64 `json:"score" yaml:"score"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%g)", e.Member, e.Score)
}

// ZSet stores the score of every member under (zset, name, member). The order is
// derived on read: members are sorted by score, equal scores by member.
type ZSet struct {
	table *ckv.Table
}

// New creates the sorted set operations on top of table
func New(table *ckv.Table) *ZSet {
	return &ZSet{table: table}
}

func memberKey(name, member string) ckey.Key {
	return ckey.New(ckey.KindZSetMember, name, ckey.Str(member))
}

func scope(name string) ckey.Key {
	return ckey.New(ckey.KindZSetMember, name, ckey.None())
}

// checkScore rejects NaN, scores have to be totally ordered
func checkScore(member string, score float64) error {
	if math.IsNaN(score) {
		return store.NewError(store.RetCInvalidOperation, fmt.Sprintf("score of %q is not a number", member))
	}
	return nil
}

// put writes the score of member and indexes it if it is new
func put(tx ckv.ITable, name, member string, score float64) (added bool, err error) {
	existed, err := tx.Contains(memberKey(name, member))
	if err != nil {
		return false, err
	}
	if err := tx.Put(memberKey(name, member), codec.Record{Score: score}); err != nil {
		return false, err
	}
	if existed {
		return false, nil
	}
	return true, members.Insert(tx, name, member)
}

// sorted loads every member with its score in ascending order
func sorted(tx ckv.ITable, name string) ([]Entry, error) {
	names, err := members.Members(tx, name)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(names))
	for _, m := range names {
		rec, ok, err := tx.Get(memberKey(name, m))
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, Entry{Member: m, Score: rec.Score})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score < entries[j].Score
		}
		return entries[i].Member < entries[j].Member
	})
	return entries, nil
}

// Add sets the score of member, overwriting an existing score.
// It reports whether member was new. A NaN score is rejected with
// store.RetCInvalidOperation.
func (z *ZSet) Add(name, member string, score float64) (added bool, err error) {
	defer common.Observe(structure, "add", time.Now(), &err)

	if err = checkScore(member, score); err != nil {
		return false, err
	}

	err = z.table.Update(scope(name), func(tx ckv.ITable) error {
		var err error
		added, err = put(tx, name, member, score)
		return err
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// Score returns the score of member
func (z *ZSet) Score(name, member string) (score float64, ok bool, err error) {
	defer common.Observe(structure, "score", time.Now(), &err)

	rec, ok, err := z.table.Get(memberKey(name, member))
	return rec.Score, ok, err
}

// IncrementBy adds delta to the score of member (a missing member counts as 0) and
// returns the new score. If the sum is NaN (for example +Inf plus -Inf) nothing is
// written and store.RetCInvalidOperation is returned.
func (z *ZSet) IncrementBy(name, member string, delta float64) (score float64, err error) {
	defer common.Observe(structure, "increment_by", time.Now(), &err)

	err = z.table.Update(scope(name), func(tx ckv.ITable) error {
		rec, _, err := tx.Get(memberKey(name, member))
		if err != nil {
			return err
		}
		score = rec.Score + delta
		if err := checkScore(member, score); err != nil {
			return err
		}
		_, err = put(tx, name, member, score)
		return err
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}

// Remove deletes member and reports whether it existed
func (z *ZSet) Remove(name, member string) (removed bool, err error) {
	defer common.Observe(structure, "remove", time.Now(), &err)

	err = z.table.Update(scope(name), func(tx ckv.ITable) error {
		ok, err := tx.Remove(memberKey(name, member))
		if err != nil || !ok {
			return err
		}
		removed = true
		return members.Delete(tx, name, member)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Cardinality returns the number of members
func (z *ZSet) Cardinality(name string) (n int64, err error) {
	defer common.Observe(structure, "cardinality", time.Now(), &err)
	return members.Len(z.table, name)
}

// Rank returns the 0-based position of member in ascending score order
func (z *ZSet) Rank(name, member string) (rank int64, ok bool, err error) {
	defer common.Observe(structure, "rank", time.Now(), &err)
	return z.rank(name, member, false)
}

// RevRank returns the 0-based position of member in descending score order
func (z *ZSet) RevRank(name, member string) (rank int64, ok bool, err error) {
	defer common.Observe(structure, "rev_rank", time.Now(), &err)
	return z.rank(name, member, true)
}

func (z *ZSet) rank(name, member string, reverse bool) (rank int64, ok bool, err error) {
	err = z.table.View(scope(name), func(tx ckv.ITable) error {
		entries, err := sorted(tx, name)
		if err != nil {
			return err
		}
		for i, e := range entries {
			if e.Member != member {
				continue
			}
			rank, ok = int64(i), true
			if reverse {
				rank = int64(len(entries)-1) - rank
			}
			break
		}
		return nil
	})
	return rank, ok, err
}

// Range returns the entries at the ascending positions start to stop (both inclusive,
// negative values count from the highest score)
func (z *ZSet) Range(name string, start, stop int64) (result []Entry, err error) {
	defer common.Observe(structure, "range", time.Now(), &err)

	err = z.table.View(scope(name), func(tx ckv.ITable) error {
		entries, err := sorted(tx, name)
		if err != nil {
			return err
		}
		from, to, ok := common.ResolveRange(start, stop, int64(len(entries)))
		if ok {
			result = entries[from : to+1]
		}
		return nil
	})
	return result, err
}

package set

import (
	"sort"
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckey"
	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/ValentinKolb/dStruct/lib/ds/index"
)

const structure = "set"

var members = index.New(ckey.KindSetIndex)

// Set stores one marker record per member. Membership is the existence of the key,
// so adding a member twice is rejected by the store itself.
type Set struct {
	table *ckv.Table
}

// New creates the set operations on top of table
func New(table *ckv.Table) *Set {
	return &Set{table: table}
}

func memberKey(name, member string) ckey.Key {
	return ckey.New(ckey.KindSetMember, name, ckey.Str(member))
}

func scope(name string) ckey.Key {
	return ckey.New(ckey.KindSetMember, name, ckey.None())
}

// Add inserts member and reports whether it was new
func (s *Set) Add(name, member string) (added bool, err error) {
	defer common.Observe(structure, "add", time.Now(), &err)

	err = s.table.Update(scope(name), func(tx ckv.ITable) error {
		inserted, err := tx.PutIfAbsent(memberKey(name, member), codec.Record{})
		if err != nil || !inserted {
			return err
		}
		added = true
		return members.Insert(tx, name, member)
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

// Contains reports whether member is in the set
func (s *Set) Contains(name, member string) (ok bool, err error) {
	defer common.Observe(structure, "contains", time.Now(), &err)
	return s.table.Contains(memberKey(name, member))
}

// Remove deletes member and reports whether it was in the set
func (s *Set) Remove(name, member string) (removed bool, err error) {
	defer common.Observe(structure, "remove", time.Now(), &err)

	err = s.table.Update(scope(name), func(tx ckv.ITable) error {
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
func (s *Set) Cardinality(name string) (n int64, err error) {
	defer common.Observe(structure, "cardinality", time.Now(), &err)
	return members.Len(s.table, name)
}

// Members returns all members in lexicographic order
func (s *Set) Members(name string) (result []string, err error) {
	defer common.Observe(structure, "members", time.Now(), &err)

	err = s.table.View(scope(name), func(tx ckv.ITable) error {
		result, err = members.Members(tx, name)
		return err
	})
	sort.Strings(result)
	return result, err
}

// Intersect returns the members of a that are also in b
func (s *Set) Intersect(a, b string) (result []string, err error) {
	defer common.Observe(structure, "intersect", time.Now(), &err)
	return s.combine(a, b, func(inA, inB bool) bool { return inA && inB })
}

// Union returns the members that are in a or b
func (s *Set) Union(a, b string) (result []string, err error) {
	defer common.Observe(structure, "union", time.Now(), &err)
	return s.combine(a, b, func(inA, inB bool) bool { return inA || inB })
}

// Diff returns the members of a that are not in b
func (s *Set) Diff(a, b string) (result []string, err error) {
	defer common.Observe(structure, "diff", time.Now(), &err)
	return s.combine(a, b, func(inA, inB bool) bool { return inA && !inB })
}

// combine reads both sets while holding both locks and returns every member of
// either set for which keep is true, sorted.
func (s *Set) combine(a, b string, keep func(inA, inB bool) bool) ([]string, error) {
	var ofA, ofB []string
	read := func(tx ckv.ITable) (err error) {
		if ofA, err = members.Members(tx, a); err != nil {
			return err
		}
		ofB, err = members.Members(tx, b)
		return err
	}

	var err error
	switch {
	case a == b:
		err = s.table.View(scope(a), read)
	default:
		// locks are always taken in name order, so two opposite calls cannot deadlock
		first, second := a, b
		if second < first {
			first, second = second, first
		}
		err = s.table.View(scope(first), func(ckv.ITable) error {
			return s.table.View(scope(second), read)
		})
	}
	if err != nil {
		return nil, err
	}

	inA := make(map[string]bool, len(ofA))
	for _, m := range ofA {
		inA[m] = true
	}
	inB := make(map[string]bool, len(ofB))
	for _, m := range ofB {
		inB[m] = true
	}

	result := []string{}
	for m := range inA {
		if keep(true, inB[m]) {
			result = append(result, m)
		}
	}
	for m := range inB {
		if !inA[m] && keep(false, true) {
			result = append(result, m)
		}
	}
	sort.Strings(result)
	return result, nil
}

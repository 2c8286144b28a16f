package zset

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
)

func newTestZSet(t *testing.T) *ZSet {
	return newTestZSetWithCodec(t, codec.NewBinaryCodec())
}

func newTestZSetWithCodec(t *testing.T, c codec.ICodec) *ZSet {
	database := maple.NewMapleDB(nil)
	t.Cleanup(func() { database.Close() })
	s := lstore.NewLocalStore(func() db.KVDB { return database })
	return New(ckv.NewTable(s, c, ckv.DefaultOptions()))
}

func TestScoreRoundTrip(t *testing.T) {
	z := newTestZSet(t)

	if added, _ := z.Add("z", "p", 100.0); !added {
		t.Errorf("Add of a new member should report true")
	}
	score, err := z.IncrementBy("z", "p", 50.0)
	if err != nil {
		t.Fatal(err)
	}
	if score != 150.0 {
		t.Errorf("IncrementBy() = %v, want 150", score)
	}
	if got, ok, _ := z.Score("z", "p"); !ok || got != 150.0 {
		t.Errorf("Score() = (%v, %v), want 150", got, ok)
	}

	if added, _ := z.Add("z", "p", 1.0); added {
		t.Errorf("Add of an existing member should report false")
	}
	if got, _, _ := z.Score("z", "p"); got != 1.0 {
		t.Errorf("Add should overwrite the score, got %v", got)
	}
	if n, _ := z.Cardinality("z"); n != 1 {
		t.Errorf("Cardinality() = %d, want 1", n)
	}
}

func TestIncrementMissing(t *testing.T) {
	z := newTestZSet(t)

	if score, _ := z.IncrementBy("z", "new", -2.5); score != -2.5 {
		t.Errorf("IncrementBy on a missing member = %v, want -2.5", score)
	}
	if n, _ := z.Cardinality("z"); n != 1 {
		t.Errorf("IncrementBy should add the member, Cardinality() = %d", n)
	}
	if _, ok, _ := z.Score("z", "other"); ok {
		t.Errorf("Score of a missing member should report absent")
	}
}

func TestRank(t *testing.T) {
	z := newTestZSet(t)
	z.Add("z", "c", 2)
	z.Add("z", "a", 3)
	z.Add("z", "b", 2) // tie with c, b sorts first
	z.Add("z", "d", 1)

	tests := []struct {
		member  string
		rank    int64
		revRank int64
	}{
		{"d", 0, 3},
		{"b", 1, 2},
		{"c", 2, 1},
		{"a", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			if rank, ok, _ := z.Rank("z", tt.member); !ok || rank != tt.rank {
				t.Errorf("Rank(%s) = (%d, %v), want %d", tt.member, rank, ok, tt.rank)
			}
			if rank, ok, _ := z.RevRank("z", tt.member); !ok || rank != tt.revRank {
				t.Errorf("RevRank(%s) = (%d, %v), want %d", tt.member, rank, ok, tt.revRank)
			}
		})
	}

	if _, ok, _ := z.Rank("z", "missing"); ok {
		t.Errorf("Rank of a missing member should report absent")
	}
}

func TestRangeAndRemove(t *testing.T) {
	z := newTestZSet(t)
	z.Add("z", "low", -1)
	z.Add("z", "mid", 0)
	z.Add("z", "high", 10)

	entries, err := z.Range("z", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{"low", -1}, {"mid", 0}, {"high", 10}}
	if len(entries) != len(want) {
		t.Fatalf("Range() = %v, want %v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("Range()[%d] = %v, want %v", i, entries[i], want[i])
		}
	}

	if top, _ := z.Range("z", -1, -1); len(top) != 1 || top[0].Member != "high" {
		t.Errorf("Range(-1, -1) = %v, want [high]", top)
	}

	if removed, _ := z.Remove("z", "mid"); !removed {
		t.Errorf("Remove should report true")
	}
	if removed, _ := z.Remove("z", "mid"); removed {
		t.Errorf("second Remove should report false")
	}
	if rank, _, _ := z.Rank("z", "high"); rank != 1 {
		t.Errorf("Rank(high) after remove = %d, want 1", rank)
	}
	if n, _ := z.Cardinality("z"); n != 2 {
		t.Errorf("Cardinality() = %d, want 2", n)
	}
}

func TestConcurrentIncrement(t *testing.T) {
	z := newTestZSet(t)

	const workers, increments = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				if _, err := z.IncrementBy("z", "counter", 1); err != nil {
					t.Errorf("IncrementBy() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if score, _, _ := z.Score("z", "counter"); score != workers*increments {
		t.Errorf("Score() = %v, want %d", score, workers*increments)
	}
}

func isInvalidOperation(err error) bool {
	var se *store.Error
	return errors.As(err, &se) && se.Code == store.RetCInvalidOperation
}

func TestNaNScoreRejected(t *testing.T) {
	z := newTestZSet(t)
	for m, score := range map[string]float64{"c": 3, "a": 1, "b": 2} {
		z.Add("z", m, score)
	}

	added, err := z.Add("z", "n", math.NaN())
	if !isInvalidOperation(err) || added {
		t.Errorf("Add(NaN) = (%v, %v), want invalid operation", added, err)
	}
	if _, ok, _ := z.Score("z", "n"); ok {
		t.Errorf("a rejected member must not be stored")
	}

	z.Add("z", "hi", math.Inf(1))
	if _, err := z.IncrementBy("z", "hi", math.Inf(-1)); !isInvalidOperation(err) {
		t.Errorf("IncrementBy(+Inf, -Inf) error = %v, want invalid operation", err)
	}
	if got, _, _ := z.Score("z", "hi"); !math.IsInf(got, 1) {
		t.Errorf("Score(hi) = %v, want +Inf to be kept", got)
	}

	if rank, _, _ := z.Rank("z", "a"); rank != 0 {
		t.Errorf("Rank(a) = %d, want 0", rank)
	}
	if rank, _, _ := z.Rank("z", "c"); rank != 2 {
		t.Errorf("Rank(c) = %d, want 2", rank)
	}
	if n, _ := z.Cardinality("z"); n != 4 {
		t.Errorf("Cardinality() = %d, want 4", n)
	}
}

func TestInfiniteScores(t *testing.T) {
	for _, c := range []codec.ICodec{codec.NewBinaryCodec(), codec.NewJSONCodec(), codec.NewGOBCodec()} {
		t.Run(c.Name(), func(t *testing.T) {
			z := newTestZSetWithCodec(t, c)

			for m, score := range map[string]float64{"hi": math.Inf(1), "lo": math.Inf(-1), "mid": 0.1} {
				if _, err := z.Add("z", m, score); err != nil {
					t.Fatalf("Add(%s, %v) error = %v", m, score, err)
				}
			}

			entries, err := z.Range("z", 0, -1)
			if err != nil {
				t.Fatal(err)
			}
			want := []string{"lo", "mid", "hi"}
			if len(entries) != len(want) {
				t.Fatalf("Range() = %v, want members %v", entries, want)
			}
			for i, e := range entries {
				if e.Member != want[i] {
					t.Errorf("Range()[%d] = %v, want %s", i, e, want[i])
				}
			}
			if got, _, _ := z.Score("z", "mid"); got != 0.1 {
				t.Errorf("Score(mid) = %v, want 0.1", got)
			}
		})
	}
}

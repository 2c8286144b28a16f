package perf

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/dStruct/lib/ds"
)

const (
	perfPrefix  = "__perf"
	perfMembers = 100
)

type benchmark struct {
	name string
	op   func(d *ds.DS, n int) error
}

func collection(n int) string { return fmt.Sprintf("%s-%d", perfPrefix, n%perfKeys) }
func member(n int) string     { return fmt.Sprintf("m-%d", n%perfMembers) }

var value = []byte("perf-value")

// benchmarks run in this order, later ones work on what earlier ones wrote
var benchmarks = []benchmark{
	{"kv-set", func(d *ds.DS, n int) error {
		return d.KV().Set(collection(n)+"/"+member(n), value)
	}},
	{"kv-get", func(d *ds.DS, n int) error {
		_, _, err := d.KV().Get(collection(n) + "/" + member(n))
		return err
	}},
	{"list-push-right", func(d *ds.DS, n int) error {
		_, err := d.List().PushRight(collection(n), value)
		return err
	}},
	{"list-index", func(d *ds.DS, n int) error {
		_, _, err := d.List().Index(collection(n), int64(n%perfMembers))
		return err
	}},
	{"list-pop-right", func(d *ds.DS, n int) error {
		_, _, err := d.List().PopRight(collection(n))
		return err
	}},
	{"list-push-left", func(d *ds.DS, n int) error {
		// bounded, every push shifts the whole list
		if n%2 == 1 {
			_, _, err := d.List().PopLeft(collection(n))
			return err
		}
		_, err := d.List().PushLeft(collection(n), value)
		return err
	}},
	{"queue-enqueue", func(d *ds.DS, n int) error {
		_, err := d.Queue().Enqueue(collection(n), value)
		return err
	}},
	{"queue-dequeue", func(d *ds.DS, n int) error {
		_, _, err := d.Queue().Dequeue(collection(n))
		return err
	}},
	{"set-add", func(d *ds.DS, n int) error {
		_, err := d.Set().Add(collection(n), member(n))
		return err
	}},
	{"set-contains", func(d *ds.DS, n int) error {
		_, err := d.Set().Contains(collection(n), member(n))
		return err
	}},
	{"set-intersect", func(d *ds.DS, n int) error {
		_, err := d.Set().Intersect(collection(n), collection(n+1))
		return err
	}},
	{"zset-incr", func(d *ds.DS, n int) error {
		_, err := d.ZSet().IncrementBy(collection(n), member(n), 1)
		return err
	}},
	{"zset-rank", func(d *ds.DS, n int) error {
		_, _, err := d.ZSet().Rank(collection(n), member(n))
		return err
	}},
	{"hash-set", func(d *ds.DS, n int) error {
		_, err := d.Hash().Set(collection(n), member(n), value)
		return err
	}},
	{"hash-get", func(d *ds.DS, n int) error {
		_, _, err := d.Hash().Get(collection(n), member(n))
		return err
	}},
}

// cleanup removes every collection the benchmarks may have written
func cleanup(d *ds.DS) error {
	var errs []error
	for k := 0; k < perfKeys; k++ {
		name := collection(k)
		for {
			_, ok, err := d.List().PopRight(name)
			if err != nil {
				errs = append(errs, err)
			}
			if err != nil || !ok {
				break
			}
		}
		for {
			_, ok, err := d.Queue().Dequeue(name)
			if err != nil {
				errs = append(errs, err)
			}
			if err != nil || !ok {
				break
			}
		}
		for m := 0; m < perfMembers; m++ {
			if _, err := d.Set().Remove(name, member(m)); err != nil {
				errs = append(errs, err)
			}
			if _, err := d.ZSet().Remove(name, member(m)); err != nil {
				errs = append(errs, err)
			}
			if _, err := d.Hash().Delete(name, member(m)); err != nil {
				errs = append(errs, err)
			}
			if _, err := d.KV().Delete(name + "/" + member(m)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

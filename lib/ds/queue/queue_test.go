package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/codec"
	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store/lstore"
)

func newTestQueue(t *testing.T) *Queue {
	database := maple.NewMapleDB(nil)
	t.Cleanup(func() { database.Close() })
	s := lstore.NewLocalStore(func() db.KVDB { return database })
	return New(ckv.NewTable(s, codec.NewBinaryCodec(), ckv.DefaultOptions()))
}

func TestFIFO(t *testing.T) {
	q := newTestQueue(t)

	const k = 10
	for i := 0; i < k; i++ {
		n, err := q.Enqueue("q", []byte(fmt.Sprint(i)))
		if err != nil {
			t.Fatal(err)
		}
		if n != uint64(i+1) {
			t.Errorf("Enqueue returned size %d, want %d", n, i+1)
		}
	}

	for j := 0; j < k; j++ {
		if n, _ := q.Size("q"); n != uint64(k-j) {
			t.Errorf("after %d dequeues Size() = %d, want %d", j, n, k-j)
		}
		v, ok, err := q.Dequeue("q")
		if err != nil || !ok {
			t.Fatalf("Dequeue() = (%q, %v, %v)", v, ok, err)
		}
		if string(v) != fmt.Sprint(j) {
			t.Errorf("Dequeue() = %s, want %d", v, j)
		}
	}

	if _, ok, _ := q.Dequeue("q"); ok {
		t.Errorf("Dequeue on an empty queue should report absent")
	}
	if _, ok, _ := q.Peek("q"); ok {
		t.Errorf("Peek on an empty queue should report absent")
	}
	if n, _ := q.Size("q"); n != 0 {
		t.Errorf("Size() = %d, want 0", n)
	}
}

func TestInitAndPeek(t *testing.T) {
	q := newTestQueue(t)

	if created, _ := q.Init("q"); !created {
		t.Errorf("Init should create a missing queue")
	}
	if created, _ := q.Init("q"); created {
		t.Errorf("second Init should be a no-op")
	}
	if n, _ := q.Size("q"); n != 0 {
		t.Errorf("new queue Size() = %d, want 0", n)
	}

	q.Enqueue("q", []byte("first"))
	q.Enqueue("q", []byte("second"))

	v, ok, _ := q.Peek("q")
	if !ok || string(v) != "first" {
		t.Errorf("Peek() = (%q, %v), want first", v, ok)
	}
	if n, _ := q.Size("q"); n != 2 {
		t.Errorf("Peek must not change the size, got %d", n)
	}

	// Init on a queue with items keeps them
	q.Init("q")
	if n, _ := q.Size("q"); n != 2 {
		t.Errorf("Init must not reset a queue, got size %d", n)
	}
}

func TestSequenceNotReused(t *testing.T) {
	q := newTestQueue(t)

	q.Enqueue("q", []byte("a"))
	q.Dequeue("q")
	q.Enqueue("q", []byte("b"))

	meta, _, _ := q.table.Get(metaKey("q"))
	if meta.Head != 1 || meta.Tail != 2 {
		t.Errorf("meta = (%d, %d), want (1, 2)", meta.Head, meta.Tail)
	}
	if ok, _ := q.table.Contains(itemKey("q", 0)); ok {
		t.Errorf("dequeued item should be removed")
	}
}

func TestConcurrentProducersConsumers(t *testing.T) {
	q := newTestQueue(t)

	const producers, items = 4, 25
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < items; i++ {
				if _, err := q.Enqueue("q", []byte(fmt.Sprintf("%d-%d", p, i))); err != nil {
					t.Errorf("Enqueue() error = %v", err)
				}
			}
		}(p)
	}
	wg.Wait()

	var mu sync.Mutex
	seen := make(map[string]bool)
	for c := 0; c < producers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok, err := q.Dequeue("q")
				if err != nil {
					t.Errorf("Dequeue() error = %v", err)
					return
				}
				if !ok {
					return
				}
				mu.Lock()
				if seen[string(v)] {
					t.Errorf("item %s dequeued twice", v)
				}
				seen[string(v)] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != producers*items {
		t.Errorf("dequeued %d items, want %d", len(seen), producers*items)
	}
}

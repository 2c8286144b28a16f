package dstore

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/dStruct/lib/db"
	"github.com/ValentinKolb/dStruct/lib/db/engines/maple"
	"github.com/ValentinKolb/dStruct/lib/store"
	"github.com/ValentinKolb/dStruct/lib/store/dstore/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

func newTestStateMachine(t *testing.T) sm.IConcurrentStateMachine {
	fsm := CreateStateMachineFactory(func() db.KVDB { return maple.NewMapleDB(nil) })(1, 1)
	t.Cleanup(func() { fsm.Close() })
	return fsm
}

func entry(index uint64, cmd internal.Command) sm.Entry {
	return sm.Entry{Index: index, Cmd: cmd.Serialize()}
}

func TestUpdate(t *testing.T) {
	fsm := newTestStateMachine(t)

	entries, err := fsm.Update([]sm.Entry{
		entry(1, internal.Command{Type: internal.CommandTSetIfUnset, Key: "k", Value: []byte("a")}),
		entry(2, internal.Command{Type: internal.CommandTSetIfUnset, Key: "k", Value: []byte("b")}),
		entry(3, internal.Command{Type: internal.CommandTDelete, Key: "k"}),
		entry(4, internal.Command{Type: internal.CommandTDelete, Key: "k"}),
		entry(5, internal.Command{Type: internal.CommandTSet, Key: "x", Value: []byte("v")}),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []bool{true, false, true, false}
	for i, w := range want {
		res := entries[i].Result
		if res.Value != uint64(store.RetCSuccess) {
			t.Errorf("entry %d: unexpected code %d (%s)", i, res.Value, res.Data)
		}
		if got := internal.DecodeFlag(res.Data); got != w {
			t.Errorf("entry %d: flag = %v, want %v", i, got, w)
		}
	}

	res, err := fsm.Lookup(internal.Query{Type: internal.QueryTGet, Key: "x"})
	if err != nil {
		t.Fatal(err)
	}
	qr := res.(internal.QueryResult)
	if !qr.Ok || !bytes.Equal(qr.Value, []byte("v")) {
		t.Errorf("Expected x=v, got %+v", qr)
	}
}

func TestUpdateInvalid(t *testing.T) {
	fsm := newTestStateMachine(t)

	entries, err := fsm.Update([]sm.Entry{
		{Index: 1, Cmd: nil},
		{Index: 2, Cmd: []byte{1, 2}},
		{Index: 3, Cmd: (&internal.Command{Type: 99, Key: "k"}).Serialize()},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []store.RetCode{store.RetCInvalidOperation, store.RetCInternalError, store.RetCInvalidOperation}
	for i, code := range want {
		if entries[i].Result.Value != uint64(code) {
			t.Errorf("entry %d: code = %d, want %d", i, entries[i].Result.Value, code)
		}
	}

	if _, err := fsm.Lookup("not a query"); err == nil {
		t.Errorf("Expected error for invalid query type")
	}
}

func TestLeaseUsesLogIndex(t *testing.T) {
	fsm := newTestStateMachine(t)

	_, _ = fsm.Update([]sm.Entry{
		entry(10, internal.Command{Type: internal.CommandTSetIfUnset, Key: "lock", Value: []byte("owner"), DeleteIn: 5}),
	})

	has, _ := fsm.Lookup(internal.Query{Type: internal.QueryTHas, Key: "lock"})
	if !has.(bool) {
		t.Fatalf("Expected lock to be held")
	}

	_, _ = fsm.Update([]sm.Entry{
		entry(15, internal.Command{Type: internal.CommandTSet, Key: "tick"}),
	})
	has, _ = fsm.Lookup(internal.Query{Type: internal.QueryTHas, Key: "lock"})
	if has.(bool) {
		t.Errorf("Expected lease to run out at log index 15")
	}
}

func TestSnapshot(t *testing.T) {
	source := newTestStateMachine(t)
	_, _ = source.Update([]sm.Entry{
		entry(1, internal.Command{Type: internal.CommandTSet, Key: "a", Value: []byte("1")}),
	})

	var buf bytes.Buffer
	if err := source.SaveSnapshot(nil, &buf, nil, nil); err != nil {
		t.Fatal(err)
	}

	target := newTestStateMachine(t)
	if err := target.RecoverFromSnapshot(&buf, nil, nil); err != nil {
		t.Fatal(err)
	}
	res, _ := target.Lookup(internal.Query{Type: internal.QueryTGet, Key: "a"})
	if qr := res.(internal.QueryResult); !qr.Ok || string(qr.Value) != "1" {
		t.Errorf("Expected a=1 after recovery, got %+v", qr)
	}
}

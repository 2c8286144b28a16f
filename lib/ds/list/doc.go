/*
Package list implements ordered lists with dense integer indices on top of a composite-key
table.

A list named "todo" with three elements is stored as

	(list, "todo", 0) -> "b"
	(list, "todo", 1) -> "a"
	(list, "todo", 2) -> "c"
	(list-meta, "todo") -> Len 3

Indices are always 0..Len-1 without holes. PushLeft and PopLeft move every element by one
index and therefore cost O(N) store writes; they run in a single scoped transaction, so a
failure in the middle of a shift is rolled back and concurrent pushes never interleave.

Usage:

	l := list.New(table)
	l.PushRight("todo", []byte("task1"))
	l.PushLeft("todo", []byte("task2"))
	v, ok, err := l.Index("todo", -1) // "task1"
*/
package list

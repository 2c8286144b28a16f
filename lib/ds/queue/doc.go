/*
Package queue implements FIFO queues on top of a composite-key table.

Each queue has a metadata record (Head, Tail) and one item per sequence number:

	(queue-meta, "jobs")  -> Head 2, Tail 5
	(queue, "jobs", 2)    -> "c"
	(queue, "jobs", 3)    -> "d"
	(queue, "jobs", 4)    -> "e"

Enqueue writes at Tail and advances it, Dequeue removes the item at Head and advances Head.
Sequence numbers are never reused, so Size is Tail - Head and every operation is O(1).
A queue without metadata is empty.
*/
package queue

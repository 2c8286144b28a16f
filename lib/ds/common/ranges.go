package common

// ResolveIndex turns a possibly negative index into a position in a sequence of
// length n. -1 is the last element. ok is false if the index is out of range.
func ResolveIndex(i, n int64) (pos int64, ok bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// ResolveRange clamps the inclusive range [start, stop] (negative values count from
// the end) to a sequence of length n, the way Redis LRANGE does.
// ok is false if the range is empty.
func ResolveRange(start, stop, n int64) (from, to int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return 0, 0, false
	}
	return start, stop, true
}

package common

import "testing"

func TestResolveIndex(t *testing.T) {
	tests := []struct {
		i, n   int64
		want   int64
		wantOk bool
	}{
		{0, 3, 0, true},
		{2, 3, 2, true},
		{3, 3, 0, false},
		{-1, 3, 2, true},
		{-3, 3, 0, true},
		{-4, 3, 0, false},
		{0, 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := ResolveIndex(tt.i, tt.n)
		if ok != tt.wantOk || (ok && got != tt.want) {
			t.Errorf("ResolveIndex(%d, %d) = (%d, %v), want (%d, %v)", tt.i, tt.n, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name           string
		start, stop, n int64
		from, to       int64
		wantOk         bool
	}{
		{"all", 0, -1, 5, 0, 4, true},
		{"prefix", 0, 1, 5, 0, 1, true},
		{"tail", -2, -1, 5, 3, 4, true},
		{"clamped stop", 2, 100, 5, 2, 4, true},
		{"clamped start", -100, 1, 5, 0, 1, true},
		{"inverted", 3, 1, 5, 0, 0, false},
		{"start past end", 7, 9, 5, 0, 0, false},
		{"empty", 0, -1, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := ResolveRange(tt.start, tt.stop, tt.n)
			if ok != tt.wantOk || (ok && (from != tt.from || to != tt.to)) {
				t.Errorf("ResolveRange(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.start, tt.stop, tt.n, from, to, ok, tt.from, tt.to, tt.wantOk)
			}
		})
	}
}

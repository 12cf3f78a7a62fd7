package random

import (
	"math"
	"sort"
	"testing"
)

func TestDay(t *testing.T) {
	tests := []struct {
		name     string
		from, to int64
	}{
		{"three values", -1, 1},
		{"single value", 42, 42},
		{"reversed collapses to from", 10, 5},
		{"wide range", -690527216875308, 690527217032720},
		{"full int64", math.MinInt64, math.MaxInt64},
	}

	rng := New(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to check range
			for i := 0; i < 1000; i++ {
				got := Day(rng, tt.from, tt.to)
				hi := tt.to
				if hi < tt.from {
					hi = tt.from
				}
				if got < tt.from || got > hi {
					t.Fatalf("Day(%d, %d) = %d, out of range", tt.from, tt.to, got)
				}
			}
		})
	}
}

func TestDayDistribution(t *testing.T) {
	rng := New(7)
	counts := make(map[int64]int)
	for i := 0; i < 3000; i++ {
		counts[Day(rng, -1, 1)]++
	}
	for _, d := range []int64{-1, 0, 1} {
		if counts[d] < 800 || counts[d] > 1200 {
			t.Errorf("value %d drawn %d times out of 3000", d, counts[d])
		}
	}
}

func TestDaysReproducible(t *testing.T) {
	a := Days(New(1970), -100000, 100000, 50)
	b := Days(New(1970), -100000, 100000, 50)
	if len(a) != 50 {
		t.Fatalf("len = %d, want 50", len(a))
	}
	if !sort.SliceIsSorted(a, func(i, j int) bool { return a[i] < a[j] }) {
		t.Errorf("Days() not sorted: %v", a)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different samples at %d: %d vs %d", i, a[i], b[i])
		}
	}
	if got := Days(New(1), 0, 10, 0); len(got) != 0 {
		t.Errorf("Days(n=0) = %v, want empty", got)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		n, parts  int
		wantSizes []int
	}{
		{"even", 8, 4, []int{2, 2, 2, 2}},
		{"uneven", 10, 4, []int{3, 3, 3, 1}},
		{"more parts than items", 2, 5, []int{1, 1}},
		{"zero parts", 3, 0, []int{3}},
		{"empty", 0, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int64, tt.n)
			var sizes []int
			for _, chunk := range Split(items, tt.parts) {
				sizes = append(sizes, len(chunk))
			}
			if len(sizes) != len(tt.wantSizes) {
				t.Fatalf("Split sizes = %v, want %v", sizes, tt.wantSizes)
			}
			for i := range sizes {
				if sizes[i] != tt.wantSizes[i] {
					t.Errorf("Split sizes = %v, want %v", sizes, tt.wantSizes)
					break
				}
			}
		})
	}
}

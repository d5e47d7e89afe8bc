package earthview

import (
	"math/rand"
	"testing"
)

func TestClamp(t *testing.T) {
	for _, tc := range []struct {
		x, lo, hi, want float64
	}{
		{0, -1, 1, 0},
		{-5, -1, 1, -1},
		{5, -1, 1, 1},
		{1, -1, 1, 1},
		{-1, -1, 1, -1},
		{2, 2, 2, 2},
		{0.5, 0.43, 3, 0.5},
		{0.1, 0.43, 3, 0.43},
	} {
		if got := Clamp(tc.x, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.x, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestClampRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		lo := rnd.NormFloat64() * 100
		hi := lo + rnd.Float64()*100
		x := rnd.NormFloat64() * 200
		got := Clamp(x, lo, hi)
		if got < lo || got > hi {
			t.Fatalf("Clamp(%v, %v, %v) = %v is out of range", x, lo, hi, got)
		}
		if x >= lo && x <= hi && got != x {
			t.Fatalf("Clamp(%v, %v, %v) = %v changed an in-range value", x, lo, hi, got)
		}
	}
}

package chart

import "testing"

func TestNormalizeHeights(t *testing.T) {
	got := NormalizeHeights([]int64{0, 2500, 5000, 10000})
	want := []float64{0, 25, 50, 100}
	if len(got) != len(want) {
		t.Fatalf("expected %d heights, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("height[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNormalizeHeights_AllZero(t *testing.T) {
	for _, h := range NormalizeHeights([]int64{0, 0, 0}) {
		if h != 0 {
			t.Fatalf("all-zero series produced height %v", h)
		}
	}
}

func TestNormalizeHeights_Empty(t *testing.T) {
	if got := NormalizeHeights(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

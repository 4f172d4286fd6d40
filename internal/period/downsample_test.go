package period

import (
	"fmt"
	"testing"
)

func makePeriods(n int) []string {
	periods := make([]string, n)
	for i := range periods {
		periods[i] = fmt.Sprintf("p%03d", i)
	}
	return periods
}

func TestDownsample_UnderCapUnchanged(t *testing.T) {
	periods := makePeriods(10)
	got := Downsample(periods, 15)

	if len(got) != 10 {
		t.Errorf("expected 10 periods, got %d", len(got))
	}
}

func TestDownsample_FortyDaysToFifteen(t *testing.T) {
	periods := makePeriods(40)
	got := Downsample(periods, 15)

	if len(got) != 15 {
		t.Errorf("expected exactly 15 periods, got %d", len(got))
	}
	if got[0] != periods[0] {
		t.Errorf("first period dropped: got %s", got[0])
	}
	if got[len(got)-1] != periods[39] {
		t.Errorf("last period dropped: got %s", got[len(got)-1])
	}
}

func TestDownsample_BoundsHold(t *testing.T) {
	for length := 2; length <= 80; length++ {
		periods := makePeriods(length)
		for cap := 2; cap <= 20; cap++ {
			got := Downsample(periods, cap)

			if len(got) > cap {
				t.Fatalf("length %d cap %d: result %d exceeds cap", length, cap, len(got))
			}
			if len(got) < 2 {
				t.Fatalf("length %d cap %d: result %d lost endpoints", length, cap, len(got))
			}
			if got[0] != periods[0] || got[len(got)-1] != periods[length-1] {
				t.Fatalf("length %d cap %d: endpoints not preserved", length, cap)
			}
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Fatalf("length %d cap %d: result not strictly increasing", length, cap)
				}
			}
		}
	}
}

func TestDownsample_TinyCapKeepsEndpoints(t *testing.T) {
	periods := makePeriods(30)
	got := Downsample(periods, 0)

	if len(got) != 2 || got[0] != periods[0] || got[1] != periods[29] {
		t.Errorf("expected just both endpoints, got %v", got)
	}
}

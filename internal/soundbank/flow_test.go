package soundbank

import "testing"

func TestFlowIndexClamps(t *testing.T) {
	cases := []struct {
		x, width, want int
	}{
		{0, 100, 0},
		{-5, 100, 0},
		{9, 100, 0},
		{10, 100, 1},
		{55, 100, 5},
		{99, 100, 9},
		{100, 100, 9},
		{250, 100, 9},
		{40, 0, 0},
	}
	for _, tc := range cases {
		if got := FlowIndex(tc.x, tc.width); got != tc.want {
			t.Fatalf("FlowIndex(%d, %d) = %d, want %d", tc.x, tc.width, got, tc.want)
		}
	}
	if got := FlowFrequency(99, 100); got != 880.00 {
		t.Fatalf("expected top of scale, got %v", got)
	}
}

func TestScrollFrequencyWraps(t *testing.T) {
	if got := ScrollFrequency(450); got != 490 {
		t.Fatalf("expected 490, got %v", got)
	}
	if got := ScrollFrequency(-10); got != 630 {
		t.Fatalf("expected 630, got %v", got)
	}
}

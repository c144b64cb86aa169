package benefits

import "testing"

func TestReachedThresholds(t *testing.T) {
	tests := []struct {
		pct       float64
		exhausted bool
		want      []int
	}{
		{0, false, nil},
		{49.9, false, nil},
		{50, false, []int{50}},
		{80, false, []int{50, 80}},
		{92.5, false, []int{50, 80, 90}},
		{100, false, []int{50, 80, 90, 100}},
		{99.99, true, []int{50, 80, 90, 100}},
	}

	for _, tt := range tests {
		got := ReachedThresholds(tt.pct, tt.exhausted)
		if len(got) != len(tt.want) {
			t.Fatalf("ReachedThresholds(%v, %v) = %v, want %v", tt.pct, tt.exhausted, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("ReachedThresholds(%v, %v) = %v, want %v", tt.pct, tt.exhausted, got, tt.want)
			}
		}
	}
}

func TestMissingThresholds(t *testing.T) {
	missing := MissingThresholds([]int{50, 80, 90}, []int{50})
	if len(missing) != 2 || missing[0] != 80 || missing[1] != 90 {
		t.Fatalf("expected [80 90], got %v", missing)
	}

	if got := MissingThresholds([]int{50}, []int{50}); len(got) != 0 {
		t.Fatalf("expected no missing thresholds, got %v", got)
	}

	if got := MissingThresholds(nil, nil); len(got) != 0 {
		t.Fatalf("expected no missing thresholds, got %v", got)
	}
}

package grading

import "testing"

func TestApplyAwardsClampsToCap(t *testing.T) {
	entries := []TextEntry{{Position: 1, MaxPoints: 3}}

	// Awarding 5 on a 3-point question must never store 5.
	out, total, err := ApplyAwards(entries, map[int]int{1: 5})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out[1] != 3 || total != 3 {
		t.Fatalf("award = %d (total %d), want clamped to 3", out[1], total)
	}
}

func TestApplyAwardsNegativeClampsToZero(t *testing.T) {
	entries := []TextEntry{{Position: 0, MaxPoints: 2}}
	out, total, err := ApplyAwards(entries, map[int]int{0: -4})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out[0] != 0 || total != 0 {
		t.Fatalf("award = %d (total %d), want 0", out[0], total)
	}
}

func TestApplyAwardsRejectsUnknownPosition(t *testing.T) {
	entries := []TextEntry{{Position: 2, MaxPoints: 2}}
	if _, _, err := ApplyAwards(entries, map[int]int{0: 1}); err == nil {
		t.Fatal("expected error for non-gradable position")
	}
}

func TestApplyAwardsMissingPositionsDefaultZero(t *testing.T) {
	entries := []TextEntry{
		{Position: 0, MaxPoints: 2},
		{Position: 1, MaxPoints: 2},
	}
	out, total, err := ApplyAwards(entries, map[int]int{1: 2})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if _, present := out[0]; present {
		t.Fatal("unawarded position should stay absent, defaulting to zero")
	}
}

package detect

import (
	"strings"
	"testing"

	"scrubber/internal/core/pii"
	"scrubber/internal/platform/testkit"
)

func TestOverlapRatio(t *testing.T) {
	mk := func(s, e int) pii.Candidate { return pii.Candidate{Start: s, End: e} }

	tests := []struct {
		name string
		a, b pii.Candidate
		want float64
	}{
		{name: "identical", a: mk(0, 10), b: mk(0, 10), want: 1.0},
		{name: "disjoint", a: mk(0, 5), b: mk(5, 10), want: 0},
		{name: "contained", a: mk(0, 12), b: mk(0, 10), want: 10.0 / 12.0},
		{name: "partial", a: mk(0, 10), b: mk(5, 15), want: 5.0 / 15.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := overlapRatio(tc.a, tc.b)
			testkit.CloseTo(t, got, tc.want, 1e-9)
			// Symmetric by construction
			testkit.CloseTo(t, overlapRatio(tc.b, tc.a), tc.want, 1e-9)
		})
	}
}

func TestMerge_WeightedConfidence(t *testing.T) {
	text := "abcdefghijklmnopqrst"
	a := pii.NewCandidate(pii.TypePhone, text[0:10], 0, 10, 0.9, "rule_based")
	b := pii.NewCandidate(pii.TypePhone, text[0:12], 0, 12, 0.6, "ml_model")

	out := mergeCandidates([]pii.Candidate{a, b}, 0.7)
	if len(out) != 1 {
		t.Fatalf("got %d candidates, want 1", len(out))
	}
	m := out[0]

	// (0.9*10 + 0.6*12) / 22
	testkit.CloseTo(t, m.Confidence, 0.73636, 1e-4)
	if m.Start != 0 || m.End != 12 {
		t.Fatalf("span = [%d,%d), want [0,12)", m.Start, m.End)
	}
	// Higher-confidence candidate is the base and keeps its matched
	// text even though the span widened
	if m.Source != "rule_based" {
		t.Fatalf("source = %q", m.Source)
	}
	if m.Text != "abcdefghij" {
		t.Fatalf("text = %q, want the base candidate's %q", m.Text, "abcdefghij")
	}
	if len(m.MergedFrom) != 2 || len(m.SourceConfidences) != 2 {
		t.Fatalf("provenance incomplete: %+v", m)
	}
	joined := strings.Join(m.Sources, ",")
	testkit.MustContain(t, joined, "rule_based")
	testkit.MustContain(t, joined, "ml_model")
}

func TestMerge_BelowThresholdStaysApart(t *testing.T) {
	a := pii.NewCandidate(pii.TypeEmail, "", 0, 10, 0.9, "rule_based")
	b := pii.NewCandidate(pii.TypeEmail, "", 8, 30, 0.8, "financial")

	// Overlap 2/30 is far under the threshold
	out := mergeCandidates([]pii.Candidate{a, b}, 0.7)
	if len(out) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out))
	}
}

func TestMerge_ConfidenceClamped(t *testing.T) {
	text := "0123456789"
	a := pii.NewCandidate(pii.TypeSSN, text, 0, 10, 1.0, "rule_based")
	b := pii.NewCandidate(pii.TypeSSN, text, 0, 10, 1.0, "financial")

	out := mergeCandidates([]pii.Candidate{a, b}, 0.7)
	if len(out) != 1 {
		t.Fatalf("got %d candidates", len(out))
	}
	if out[0].Confidence > 1.0 {
		t.Fatalf("confidence %v above 1.0", out[0].Confidence)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	in := []pii.Candidate{
		pii.NewCandidate(pii.TypePhone, "", 0, 10, 0.9, "a"),
		pii.NewCandidate(pii.TypePhone, "", 1, 11, 0.8, "b"),
		pii.NewCandidate(pii.TypeEmail, "", 20, 30, 0.7, "a"),
	}
	once := mergeCandidates(in, 0.7)
	twice := mergeCandidates(once, 0.7)
	if len(once) != len(twice) {
		t.Fatalf("second pass changed candidate count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Start != twice[i].Start || once[i].End != twice[i].End {
			t.Fatalf("second pass moved span %d", i)
		}
	}
}

func TestMerge_ProvenanceFlattens(t *testing.T) {
	in := []pii.Candidate{
		pii.NewCandidate(pii.TypePhone, "", 0, 10, 0.9, "a"),
		pii.NewCandidate(pii.TypePhone, "", 0, 10, 0.8, "b"),
		pii.NewCandidate(pii.TypePhone, "", 0, 11, 0.7, "c"),
	}
	out := mergeCandidates(in, 0.7)
	if len(out) != 1 {
		t.Fatalf("got %d candidates", len(out))
	}
	if len(out[0].MergedFrom) != 3 {
		t.Fatalf("merged_from = %v, want all three original ids", out[0].MergedFrom)
	}
	if len(out[0].SourceConfidences) != 3 {
		t.Fatalf("source_confidences = %v", out[0].SourceConfidences)
	}
}

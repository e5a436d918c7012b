package detect

import (
	"testing"

	"scrubber/internal/core/pii"
)

func TestStats_RecordAndSnapshot(t *testing.T) {
	s := NewStats()

	merged := pii.Candidate{Type: pii.TypePhone, Confidence: 0.75, Sources: []string{"rule_based", "financial"}}
	plain := pii.Candidate{Type: pii.TypeEmail, Confidence: 1.0, Source: "rule_based"}
	s.Record([]pii.Candidate{merged, plain})
	s.Record(nil)

	snap := s.Snapshot()
	if snap.Scans != 2 {
		t.Fatalf("scans = %d", snap.Scans)
	}
	if snap.Candidates != 2 {
		t.Fatalf("candidates = %d", snap.Candidates)
	}
	if snap.ByType["phone"] != 1 || snap.ByType["email"] != 1 {
		t.Fatalf("by_type = %v", snap.ByType)
	}
	// Merged candidates credit every contributing detector
	if snap.ByDetector["rule_based"] != 2 || snap.ByDetector["financial"] != 1 {
		t.Fatalf("by_detector = %v", snap.ByDetector)
	}
	if snap.Confidence["70%-79%"] != 1 {
		t.Fatalf("confidence buckets = %v", snap.Confidence)
	}
	// Exactly 1.0 lands in the top band
	if snap.Confidence["90%-100%"] != 1 {
		t.Fatalf("confidence buckets = %v", snap.Confidence)
	}
}

func TestStats_Reset(t *testing.T) {
	s := NewStats()
	s.Record([]pii.Candidate{{Type: pii.TypeEmail, Confidence: 0.9, Source: "rule_based"}})
	s.Reset()
	snap := s.Snapshot()
	if snap.Scans != 0 || snap.Candidates != 0 || len(snap.ByDetector) != 0 || len(snap.Confidence) != 0 {
		t.Fatalf("reset left residue: %+v", snap)
	}
}

package detect

import (
	"sort"

	"github.com/google/uuid"

	"scrubber/internal/core/pii"
)

// overlapRatio is intersection over union of two spans, 0 when disjoint
func overlapRatio(a, b pii.Candidate) float64 {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	inter := hi - lo
	if inter <= 0 {
		return 0
	}
	ulo := a.Start
	if b.Start < ulo {
		ulo = b.Start
	}
	uhi := a.End
	if b.End > uhi {
		uhi = b.End
	}
	return float64(inter) / float64(uhi-ulo)
}

// mergeCandidates folds overlapping findings into single candidates.
// Candidates are walked in start order; each one either merges into the
// first accepted candidate it overlaps at or above the threshold, or is
// accepted as new. The pass is deterministic for a given input set
func mergeCandidates(cands []pii.Candidate, threshold float64) []pii.Candidate {
	if len(cands) < 2 {
		return cands
	}
	sorted := make([]pii.Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var out []pii.Candidate
	for _, c := range sorted {
		merged := false
		for i := range out {
			if overlapRatio(out[i], c) >= threshold {
				out[i] = mergeTwo(out[i], c)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, c)
		}
	}
	return out
}

// mergeTwo combines two overlapping candidates. The higher-confidence
// one is the base and keeps its type, source, and matched text; the
// span becomes the union and the confidence a length-weighted average,
// never above 1.0. Provenance fields record every contributing finding
func mergeTwo(a, b pii.Candidate) pii.Candidate {
	base, other := a, b
	if b.Confidence > a.Confidence {
		base, other = b, a
	}

	m := base
	m.ID = uuid.NewString()
	if other.Start < m.Start {
		m.Start = other.Start
	}
	if other.End > m.End {
		m.End = other.End
	}

	wsum := base.Confidence*float64(base.Len()) + other.Confidence*float64(other.Len())
	m.Confidence = wsum / float64(base.Len()+other.Len())
	if m.Confidence > 1.0 {
		m.Confidence = 1.0
	}

	m.MergedFrom = mergeIDs(base, other)
	m.Sources = appendUnique(append(append([]string(nil), base.Sources...), base.Source), other.Sources, other.Source)
	m.SourceConfidences = append(append([]float64(nil), sourceConfs(base)...), sourceConfs(other)...)
	return m
}

// mergeIDs flattens provenance: a candidate that is itself a merge
// contributes its constituent IDs, not its synthetic one
func mergeIDs(a, b pii.Candidate) []string {
	var out []string
	for _, c := range []pii.Candidate{a, b} {
		if len(c.MergedFrom) > 0 {
			out = append(out, c.MergedFrom...)
		} else {
			out = append(out, c.ID)
		}
	}
	return out
}

func sourceConfs(c pii.Candidate) []float64 {
	if len(c.SourceConfidences) > 0 {
		return c.SourceConfidences
	}
	return []float64{c.Confidence}
}

func appendUnique(have []string, more []string, one string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range have {
		add(s)
	}
	for _, s := range more {
		add(s)
	}
	add(one)
	return out
}

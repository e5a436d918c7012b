package service

import (
	"math"
	"sort"

	"scrubber/internal/core/pii"
	"scrubber/internal/core/textnorm"
	"scrubber/internal/services/scan/domain"
)

func documentInfo(doc *textnorm.Document) domain.DocumentInfo {
	return domain.DocumentInfo{
		Length:           len(doc.OriginalText),
		NormalizedLength: len(doc.Text),
		Script:           doc.Script,
		Lang:             doc.Lang,
		Segments:         len(doc.Segments),
		Steps:            doc.Steps,
		Warnings:         doc.Warnings,
		Approximate:      doc.Approximate,
	}
}

// findings wraps entities for the report. Entity spans already sit in
// original-text coordinates by the time they reach here
func findings(ents []pii.Entity) []domain.Finding {
	out := make([]domain.Finding, 0, len(ents))
	for _, ent := range ents {
		out = append(out, domain.Finding{Entity: ent, OriginalStart: ent.Start, OriginalEnd: ent.End})
	}
	return out
}

var riskRank = map[pii.RiskLevel]int{
	pii.RiskLow:      0,
	pii.RiskMedium:   1,
	pii.RiskHigh:     2,
	pii.RiskCritical: 3,
}

func summarize(ents []pii.Entity, textLen int) domain.Summary {
	sum := domain.Summary{
		Total:  len(ents),
		ByType: map[string]int{},
		ByRisk: map[string]int{},
	}
	best := -1
	for _, ent := range ents {
		sum.ByType[string(ent.Type)]++
		sum.ByRisk[string(ent.Risk)]++
		if r := riskRank[ent.Risk]; r > best {
			best = r
			sum.MaxRisk = string(ent.Risk)
		}
		if ent.Confidence >= 0.8 {
			sum.HighConfidence++
		}
	}
	sum.Coverage = coverage(ents, textLen)
	return sum
}

// coverage merges the finding spans and reports covered bytes over total,
// rounded to three decimals
func coverage(ents []pii.Entity, textLen int) float64 {
	if textLen == 0 || len(ents) == 0 {
		return 0
	}
	spans := make([][2]int, 0, len(ents))
	for _, ent := range ents {
		if ent.End > ent.Start {
			spans = append(spans, [2]int{ent.Start, ent.End})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	covered, end := 0, -1
	for _, sp := range spans {
		if sp[0] > end {
			covered += sp[1] - sp[0]
			end = sp[1]
			continue
		}
		if sp[1] > end {
			covered += sp[1] - end
			end = sp[1]
		}
	}
	return math.Round(float64(covered)/float64(textLen)*1000) / 1000
}

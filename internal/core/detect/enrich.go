package detect

import (
	"math"
	"sort"
	"strings"

	"scrubber/internal/core/pii"
)

// baseRisk classifies entity types by exposure severity. Types missing
// from the table default to medium
var baseRisk = map[pii.EntityType]pii.RiskLevel{
	pii.TypeSSN:            pii.RiskCritical,
	pii.TypeCreditCard:     pii.RiskCritical,
	pii.TypePAN:            pii.RiskCritical,
	pii.TypeIBAN:           pii.RiskCritical,
	pii.TypeBankAccount:    pii.RiskCritical,
	pii.TypePassport:       pii.RiskCritical,
	pii.TypeCVV:            pii.RiskCritical,
	pii.TypeTaxID:          pii.RiskHigh,
	pii.TypePhone:          pii.RiskHigh,
	pii.TypeEmail:          pii.RiskHigh,
	pii.TypePerson:         pii.RiskHigh,
	pii.TypeDriversLicense: pii.RiskHigh,
	pii.TypeMedicalRecord:  pii.RiskHigh,
	pii.TypeInsuranceID:    pii.RiskHigh,
	pii.TypePatientID:      pii.RiskHigh,
	pii.TypeDateOfBirth:    pii.RiskHigh,
	pii.TypeSwiftCode:      pii.RiskMedium,
	pii.TypeCryptoAddress:  pii.RiskMedium,
	pii.TypeAddress:        pii.RiskMedium,
	pii.TypeDate:           pii.RiskMedium,
	pii.TypeIPAddress:      pii.RiskMedium,
	pii.TypeOrganization:   pii.RiskLow,
	pii.TypeLocation:       pii.RiskLow,
	pii.TypeURL:            pii.RiskLow,
	pii.TypeCustom:         pii.RiskMedium,
}

// negationWords in the surrounding context suggest the match is cited,
// not real
var negationWords = []string{"not", "fake", "example", "test", "dummy", "sample"}

// commonWords screens capitalized-pair person matches that are really
// sentence fragments
var commonWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
}

// Confidence multipliers applied per failed validation check, and the
// boost for high-confidence rule matches
const (
	formatPenalty     = 0.7
	contextPenalty    = 0.5
	commonWordPenalty = 0.6
	lengthPenalty     = 0.8
	ruleBonus         = 1.1
)

// Enricher turns raw candidates into reviewed entities: surrounding
// context, risk level, validation checks, and adjusted confidence
type Enricher struct{}

// NewEnricher returns a ready Enricher
func NewEnricher() *Enricher { return &Enricher{} }

// Enrich classifies and validates candidates against the text they were
// found in. The result is ordered by adjusted confidence, ties by start
func (e *Enricher) Enrich(text string, cands []pii.Candidate, window int) []pii.Entity {
	if window <= 0 {
		window = DefaultContextWindow
	}
	out := make([]pii.Entity, 0, len(cands))
	for _, c := range cands {
		ent := pii.Entity{Candidate: c, Validation: pii.NewValidation()}
		ent.Context.Before, ent.Context.After = contextAround(text, c.Start, c.End, window)

		e.validate(&ent)
		e.adjustConfidence(&ent)
		ent.Risk = riskFor(ent.Type, ent.Confidence)

		out = append(out, ent)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// riskFor downgrades the table risk as confidence drops: certain
// findings keep their class, probable ones drop a level, and anything
// weaker is low risk regardless of type
func riskFor(typ pii.EntityType, confidence float64) pii.RiskLevel {
	base, ok := baseRisk[typ]
	if !ok {
		base = pii.RiskMedium
	}
	switch {
	case confidence >= 0.9:
		return base
	case confidence >= 0.7:
		return base.Downgrade(1)
	default:
		return pii.RiskLow
	}
}

func (e *Enricher) validate(ent *pii.Entity) {
	// Format checks apply only where the type has a checkable shape
	switch ent.Type {
	case pii.TypeEmail:
		at := strings.IndexByte(ent.Text, '@')
		if at > 0 && strings.Contains(ent.Text[at+1:], ".") {
			ent.Validation.Format = pii.CheckPass
		} else {
			ent.Validation.Format = pii.CheckFail
		}
	case pii.TypePhone:
		n := digitCount(ent.Text)
		if n >= 7 && n <= 15 {
			ent.Validation.Format = pii.CheckPass
		} else {
			ent.Validation.Format = pii.CheckFail
		}
	case pii.TypeSSN:
		if digitCount(ent.Text) == 9 {
			ent.Validation.Format = pii.CheckPass
		} else {
			ent.Validation.Format = pii.CheckFail
		}
	}

	ctx := strings.ToLower(ent.Context.Before + " " + ent.Context.After)
	ent.Validation.Context = pii.CheckPass
	for _, w := range negationWords {
		if containsWord(ctx, w) {
			ent.Validation.Context = pii.CheckFail
			break
		}
	}

	if ent.Type == pii.TypePerson {
		ent.Validation.CommonWord = pii.CheckPass
		for _, tok := range strings.Fields(strings.ToLower(ent.Text)) {
			if commonWords[tok] {
				ent.Validation.CommonWord = pii.CheckFail
				break
			}
		}
	}

	n := len([]rune(ent.Text))
	if n >= 1 && n <= 100 {
		ent.Validation.Length = pii.CheckPass
	} else {
		ent.Validation.Length = pii.CheckFail
	}
}

// adjustConfidence applies multiplicative penalties for failed checks
// and a small boost for rule matches that were already near-certain.
// The result is clamped to 1.0 and rounded to three decimals
func (e *Enricher) adjustConfidence(ent *pii.Entity) {
	conf := ent.Confidence
	v := ent.Validation
	if v.Format == pii.CheckFail {
		conf *= formatPenalty
	}
	if v.Context == pii.CheckFail {
		conf *= contextPenalty
	}
	if v.CommonWord == pii.CheckFail {
		conf *= commonWordPenalty
	}
	if v.Length == pii.CheckFail {
		conf *= lengthPenalty
	}
	if ent.Source == "rule_based" && ent.Confidence >= 0.9 {
		conf *= ruleBonus
	}
	if conf > 1.0 {
		conf = 1.0
	}
	ent.Confidence = math.Round(conf*1000) / 1000
}

// containsWord reports whether w occurs in s as a whole word
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordByte(s[i-1])
		afterIdx := i + len(w)
		after := afterIdx >= len(s) || !isWordByte(s[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(w)
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

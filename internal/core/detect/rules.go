package detect

import (
	"context"
	"regexp"
	"sort"

	"scrubber/internal/core/pii"
)

// rulePattern binds a compiled expression to the entity type it finds
// and a base confidence. An optional validate hook adjusts confidence
// after the match: structurally valid matches get a 1.2x boost, invalid
// ones are halved
type rulePattern struct {
	typ      pii.EntityType
	re       *regexp.Regexp
	conf     float64
	validate func(match string) pii.CheckResult
}

// RuleDetector is the general-purpose pattern detector covering contact,
// identity, network, and document entity types
type RuleDetector struct {
	name     string
	patterns []rulePattern
}

// NewRuleDetector builds the standard rule set
func NewRuleDetector() *RuleDetector {
	return &RuleDetector{name: "rule_based", patterns: standardPatterns()}
}

func standardPatterns() []rulePattern {
	return []rulePattern{
		{
			typ:      pii.TypeEmail,
			re:       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			conf:     0.95,
			validate: validateEmail,
		},

		// Phone, most to least specific
		{
			typ:  pii.TypePhone,
			re:   regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}\b`),
			conf: 0.9,
		},
		{
			typ:  pii.TypePhone,
			re:   regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}\b`),
			conf: 0.85,
		},
		{
			typ:  pii.TypePhone,
			re:   regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`),
			conf: 0.85,
		},

		// SSN, formatted first; a bare 9-digit run is weak evidence
		{
			typ:      pii.TypeSSN,
			re:       regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			conf:     0.95,
			validate: validateSSN,
		},
		{
			typ:      pii.TypeSSN,
			re:       regexp.MustCompile(`\b\d{3} \d{2} \d{4}\b`),
			conf:     0.8,
			validate: validateSSN,
		},
		{
			typ:      pii.TypeSSN,
			re:       regexp.MustCompile(`\b\d{9}\b`),
			conf:     0.4,
			validate: validateSSN,
		},

		// Payment cards by issuer prefix, then a generic digit run.
		// Luhn decides whether the confidence is boosted or halved
		{
			typ:      pii.TypeCreditCard,
			re:       regexp.MustCompile(`\b4\d{3}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
			conf:     0.9,
			validate: validateLuhn,
		},
		{
			typ:      pii.TypeCreditCard,
			re:       regexp.MustCompile(`\b5[1-5]\d{2}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
			conf:     0.9,
			validate: validateLuhn,
		},
		{
			typ:      pii.TypeCreditCard,
			re:       regexp.MustCompile(`\b3[47]\d{2}[-\s]?\d{6}[-\s]?\d{5}\b`),
			conf:     0.9,
			validate: validateLuhn,
		},
		{
			typ:      pii.TypeCreditCard,
			re:       regexp.MustCompile(`\b6(?:011|5\d{2})[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
			conf:     0.9,
			validate: validateLuhn,
		},
		{
			typ:      pii.TypeCreditCard,
			re:       regexp.MustCompile(`\b\d{13,19}\b`),
			conf:     0.5,
			validate: validateLuhn,
		},

		{
			typ:  pii.TypePAN,
			re:   regexp.MustCompile(`\b[A-Z]{5}\d{4}[A-Z]\b`),
			conf: 0.85,
		},

		{
			typ:      pii.TypeIPAddress,
			re:       regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
			conf:     0.9,
			validate: validateIP,
		},
		{
			typ:  pii.TypeIPAddress,
			re:   regexp.MustCompile(`\b(?:[A-Fa-f0-9]{1,4}:){7}[A-Fa-f0-9]{1,4}\b`),
			conf: 0.85,
		},
		{
			typ:  pii.TypeURL,
			re:   regexp.MustCompile(`\bhttps?://[^\s<>"']+`),
			conf: 0.9,
		},

		{
			typ:  pii.TypeAddress,
			re:   regexp.MustCompile(`\b\d{1,5}\s(?:[A-Z][a-z]+\s)+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl|Way)\b\.?`),
			conf: 0.75,
		},
		{
			typ:  pii.TypeLocation,
			re:   regexp.MustCompile(`[-+]?\d{1,3}\.\d{4,},\s*[-+]?\d{1,3}\.\d{4,}\b`),
			conf: 0.7,
		},

		// Dates. A birth-date keyword upgrades the type and confidence
		{
			typ:  pii.TypeDateOfBirth,
			re:   regexp.MustCompile(`(?i)\b(?:born|dob|date of birth|birth ?date)[:\s]+\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
			conf: 0.9,
		},
		{
			typ:      pii.TypeDate,
			re:       regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
			conf:     0.8,
			validate: validateDate,
		},
		{
			typ:      pii.TypeDate,
			re:       regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
			conf:     0.7,
			validate: validateDate,
		},
		{
			typ:  pii.TypeDate,
			re:   regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s\d{1,2},?\s\d{4}\b`),
			conf: 0.75,
		},

		{
			typ:  pii.TypeBankAccount,
			re:   regexp.MustCompile(`(?i)\b(?:account|acct)\s*(?:number|no|#)?[.:#\s]+\d{6,17}\b`),
			conf: 0.8,
		},
		{
			typ:  pii.TypePassport,
			re:   regexp.MustCompile(`(?i)\bpassport\s*(?:number|no|#)?[.:#\s]+[A-Z0-9]{6,9}\b`),
			conf: 0.8,
		},
		{
			typ:  pii.TypeDriversLicense,
			re:   regexp.MustCompile(`(?i)\b(?:driver'?s?\s+licen[sc]e|dl)\s*(?:number|no|#)?[.:#\s]+[A-Z0-9]{5,13}\b`),
			conf: 0.75,
		},
	}
}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// nameStopword lists capitalized words that start sentences or
// salutations far more often than they name people
var nameStopword = map[string]bool{
	"Contact": true, "Dear": true, "Hello": true, "Hi": true,
	"Call": true, "Email": true, "Phone": true, "Fax": true,
	"From": true, "To": true, "Please": true, "Thanks": true,
	"Regards": true, "Sincerely": true, "The": true, "This": true,
	"That": true, "Our": true, "Your": true, "New": true,
	"Mr": true, "Mrs": true, "Ms": true, "Dr": true,
}

// personCandidates pairs adjacent capitalized words into weak personal
// name evidence. Pairs are generated from a token scan rather than a
// single expression so "John Smith" is still found when a capitalized
// word precedes it. Enrichment screens remaining false positives
func personCandidates(text string, conf float64, source string) []pii.Candidate {
	locs := capitalizedWord.FindAllStringIndex(text, -1)
	var out []pii.Candidate
	for i := 0; i+1 < len(locs); i++ {
		a, b := locs[i], locs[i+1]
		// Adjacent tokens separated by exactly one space
		if b[0] != a[1]+1 || text[a[1]] != ' ' {
			continue
		}
		if nameStopword[text[a[0]:a[1]]] || nameStopword[text[b[0]:b[1]]] {
			continue
		}
		out = append(out, pii.NewCandidate(pii.TypePerson, text[a[0]:b[1]], a[0], b[1], conf, source))
	}
	return out
}

// Name implements Detector
func (d *RuleDetector) Name() string { return d.name }

// Types implements Detector
func (d *RuleDetector) Types() []pii.EntityType {
	seen := map[pii.EntityType]bool{}
	var out []pii.EntityType
	for _, p := range d.patterns {
		if !seen[p.typ] {
			seen[p.typ] = true
			out = append(out, p.typ)
		}
	}
	out = append(out, pii.TypePerson)
	return out
}

// Detect implements Detector
func (d *RuleDetector) Detect(ctx context.Context, text string) ([]pii.Candidate, error) {
	cands, err := runPatterns(ctx, d.name, d.patterns, text)
	if err != nil {
		return nil, err
	}
	cands = append(cands, personCandidates(text, 0.6, d.name)...)
	return dropOverlapping(cands), nil
}

// runPatterns executes a pattern table over text, applies per-match
// validation, and resolves intra-detector overlaps by keeping the
// highest-confidence match
func runPatterns(ctx context.Context, name string, patterns []rulePattern, text string) ([]pii.Candidate, error) {
	var raw []pii.Candidate
	for _, p := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			conf := p.conf
			if p.validate != nil {
				switch p.validate(match) {
				case pii.CheckPass:
					conf = conf * 1.2
					if conf > 1.0 {
						conf = 1.0
					}
				case pii.CheckFail:
					conf = conf * 0.5
				}
			}
			raw = append(raw, pii.NewCandidate(p.typ, match, loc[0], loc[1], conf, name))
		}
	}
	return dropOverlapping(raw), nil
}

// dropOverlapping resolves overlaps among one detector's own matches:
// when two spans intersect, only the higher-confidence one survives
func dropOverlapping(cands []pii.Candidate) []pii.Candidate {
	if len(cands) < 2 {
		return cands
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].Start < cands[j].Start
	})
	var out []pii.Candidate
	for _, c := range cands {
		clash := false
		for _, k := range out {
			if c.Start < k.End && k.Start < c.End {
				clash = true
				break
			}
		}
		if !clash {
			out = append(out, c)
		}
	}
	return out
}

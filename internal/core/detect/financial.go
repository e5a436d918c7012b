package detect

import (
	"context"
	"regexp"

	"scrubber/internal/core/pii"
)

// FinancialDetector covers banking and payment identifiers beyond plain
// card numbers: IBANs, SWIFT/BIC codes, routing numbers, and crypto
// wallet addresses
type FinancialDetector struct {
	name     string
	patterns []rulePattern
}

// NewFinancialDetector builds the financial rule set
func NewFinancialDetector() *FinancialDetector {
	return &FinancialDetector{
		name: "financial",
		patterns: []rulePattern{
			{
				typ:      pii.TypeIBAN,
				re:       regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
				conf:     0.85,
				validate: validateIBAN,
			},
			{
				typ:  pii.TypeSwiftCode,
				re:   regexp.MustCompile(`(?i)\b(?:swift|bic)\s*(?:code)?[.:#\s]+[A-Z]{6}[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`),
				conf: 0.85,
			},
			{
				typ:  pii.TypeBankAccount,
				re:   regexp.MustCompile(`(?i)\b(?:routing|aba)\s*(?:number|no|#)?[.:#\s]+\d{9}\b`),
				conf: 0.85,
			},
			{
				// Bitcoin legacy and P2SH addresses
				typ:  pii.TypeCryptoAddress,
				re:   regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`),
				conf: 0.7,
			},
			{
				typ:  pii.TypeCryptoAddress,
				re:   regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`),
				conf: 0.9,
			},
			{
				typ:  pii.TypeCryptoAddress,
				re:   regexp.MustCompile(`\bbc1[a-z0-9]{25,60}\b`),
				conf: 0.85,
			},
			{
				// US EIN, keyword anchored to avoid phone-prefix noise
				typ:  pii.TypeTaxID,
				re:   regexp.MustCompile(`(?i)\b(?:ein|tax\s*id)\s*(?:number|no|#)?[.:#\s]+\d{2}-\d{7}\b`),
				conf: 0.85,
			},
			{
				typ:  pii.TypeCVV,
				re:   regexp.MustCompile(`(?i)\b(?:cvv|cvc|cvv2|security\s+code)\s*[.:#\s]+\d{3,4}\b`),
				conf: 0.85,
			},
		},
	}
}

// Name implements Detector
func (d *FinancialDetector) Name() string { return d.name }

// Types implements Detector
func (d *FinancialDetector) Types() []pii.EntityType {
	return []pii.EntityType{
		pii.TypeIBAN, pii.TypeSwiftCode, pii.TypeBankAccount,
		pii.TypeCryptoAddress, pii.TypeTaxID, pii.TypeCVV,
	}
}

// Detect implements Detector
func (d *FinancialDetector) Detect(ctx context.Context, text string) ([]pii.Candidate, error) {
	return runPatterns(ctx, d.name, d.patterns, text)
}

// validateIBAN runs the mod-97 check over the rearranged alphanumeric
// value (ISO 13616)
func validateIBAN(match string) pii.CheckResult {
	if len(match) < 15 || len(match) > 34 {
		return pii.CheckFail
	}
	rearranged := match[4:] + match[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
			rem = (rem*10 + v) % 97
			continue
		case c >= 'A' && c <= 'Z':
			v = int(c-'A') + 10
		default:
			return pii.CheckFail
		}
		rem = (rem*100 + v) % 97
	}
	if rem == 1 {
		return pii.CheckPass
	}
	return pii.CheckFail
}

package detect

import (
	"context"
	"regexp"

	"scrubber/internal/core/pii"
)

// HealthcareDetector finds clinical identifiers. All of its patterns are
// keyword-anchored: bare alphanumeric runs are far too ambiguous without
// a medical-record or insurance cue next to them
type HealthcareDetector struct {
	name     string
	patterns []rulePattern
}

// NewHealthcareDetector builds the healthcare rule set
func NewHealthcareDetector() *HealthcareDetector {
	return &HealthcareDetector{
		name: "healthcare",
		patterns: []rulePattern{
			{
				typ:  pii.TypeMedicalRecord,
				re:   regexp.MustCompile(`(?i)\b(?:mrn|medical record)\s*(?:number|no|#)?[.:#\s]+[A-Z0-9-]{5,12}\b`),
				conf: 0.85,
			},
			{
				typ:  pii.TypeInsuranceID,
				re:   regexp.MustCompile(`(?i)\b(?:member|policy|insurance|subscriber)\s*(?:id|number|no|#)[.:#\s]*[A-Z0-9-]{5,14}\b`),
				conf: 0.8,
			},
			{
				typ:  pii.TypePatientID,
				re:   regexp.MustCompile(`(?i)\bpatient\s*(?:id|number|no|#)[.:#\s]*[A-Z0-9-]{4,12}\b`),
				conf: 0.8,
			},
			{
				// National Provider Identifier, keyword-anchored
				typ:  pii.TypeMedicalRecord,
				re:   regexp.MustCompile(`(?i)\bnpi\s*(?:number|no|#)?[.:#\s]+\d{10}\b`),
				conf: 0.85,
			},
		},
	}
}

// Name implements Detector
func (d *HealthcareDetector) Name() string { return d.name }

// Types implements Detector
func (d *HealthcareDetector) Types() []pii.EntityType {
	return []pii.EntityType{pii.TypeMedicalRecord, pii.TypeInsuranceID, pii.TypePatientID}
}

// Detect implements Detector
func (d *HealthcareDetector) Detect(ctx context.Context, text string) ([]pii.Candidate, error) {
	return runPatterns(ctx, d.name, d.patterns, text)
}

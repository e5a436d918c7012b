package pii

import "github.com/google/uuid"

// Candidate is a single detected PII span in normalized text.
// Start and End are byte offsets into the normalized text, half-open
type Candidate struct {
	ID         string       `json:"id"`
	Type       EntityType   `json:"type"`
	Text       string       `json:"text"`
	Start      int          `json:"start"`
	End        int          `json:"end"`
	Confidence float64      `json:"confidence"`
	Source     string       `json:"source"`
	BBox       *BoundingBox `json:"bbox,omitempty"`

	// Merge provenance. Populated only on candidates produced by merging
	// overlapping spans from multiple detectors
	MergedFrom        []string  `json:"merged_from,omitempty"`
	Sources           []string  `json:"sources,omitempty"`
	SourceConfidences []float64 `json:"source_confidences,omitempty"`

	// Metadata is an open annotation bag: position bookkeeping from
	// normalization, redaction audit details, detector extras
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SetMeta records a metadata value, allocating the map on first use
func (c *Candidate) SetMeta(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Metadata[key] = value
}

// NewCandidate builds a candidate with a fresh identity
func NewCandidate(typ EntityType, text string, start, end int, confidence float64, source string) Candidate {
	return Candidate{
		ID:         uuid.NewString(),
		Type:       typ,
		Text:       text,
		Start:      start,
		End:        end,
		Confidence: confidence,
		Source:     source,
	}
}

// Len returns the span length in bytes
func (c Candidate) Len() int { return c.End - c.Start }

// Validation records the structural checks run against a candidate.
// Checks that do not apply to the entity type stay CheckUnknown
type Validation struct {
	Format     CheckResult `json:"format"`
	Context    CheckResult `json:"context"`
	CommonWord CheckResult `json:"common_word"`
	Length     CheckResult `json:"length"`
}

// NewValidation returns a validation record with every check unknown
func NewValidation() Validation {
	return Validation{
		Format:     CheckUnknown,
		Context:    CheckUnknown,
		CommonWord: CheckUnknown,
		Length:     CheckUnknown,
	}
}

// Context is the text surrounding an entity, for review UIs and
// context-sensitive checks
type Context struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Entity is a candidate enriched with risk, context, and validation.
// RedactedText is filled in by the redaction engine
type Entity struct {
	Candidate

	Risk         RiskLevel  `json:"risk"`
	Context      Context    `json:"context"`
	Validation   Validation `json:"validation"`
	RedactedText string     `json:"redacted_text,omitempty"`
}

// Package domain holds DTOs for scan http and service contracts
package domain

import "scrubber/internal/core/pii"

// DetectInput asks for PII detection over a piece of text. Everything
// beyond Text is optional tuning
type DetectInput struct {
	Text string `json:"text" validate:"required,min=1"`

	// Steps overrides the normalization chain; empty runs the default
	Steps []string `json:"steps,omitempty" validate:"omitempty,max=10,dive,min=1"`

	// Types restricts findings to the given entity types
	Types []string `json:"types,omitempty" validate:"omitempty,max=30,dive,min=1"`

	// Detectors restricts the run to the named detectors
	Detectors []string `json:"detectors,omitempty" validate:"omitempty,max=10,dive,min=1"`

	MergeThreshold float64 `json:"merge_threshold,omitempty" validate:"omitempty,gt=0,lte=1" example:"0.7"`
	MinConfidence  float64 `json:"min_confidence,omitempty" validate:"omitempty,gt=0,lte=1" example:"0.5"`
	ContextWindow  int     `json:"context_window,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// Finding is one enriched entity plus its location in the caller's
// original text
type Finding struct {
	pii.Entity

	OriginalStart int `json:"original_start"`
	OriginalEnd   int `json:"original_end"`
}

// DocumentInfo describes what normalization did to the input
type DocumentInfo struct {
	Length           int      `json:"length"`
	NormalizedLength int      `json:"normalized_length"`
	Script           string   `json:"script,omitempty"`
	Lang             string   `json:"lang,omitempty"`
	Segments         int      `json:"segments"`
	Steps            []string `json:"steps"`
	Warnings         []string `json:"warnings,omitempty"`
	Approximate      bool     `json:"approximate_offsets"`
}

// Summary aggregates a detection run. Coverage is the fraction of the
// normalized text covered by findings; HighConfidence counts findings
// at or above 0.8
type Summary struct {
	Total          int            `json:"total"`
	ByType         map[string]int `json:"by_type"`
	ByRisk         map[string]int `json:"by_risk"`
	MaxRisk        string         `json:"max_risk,omitempty"`
	HighConfidence int            `json:"high_confidence"`
	Coverage       float64        `json:"coverage"`
}

// DetectReport is the detection response body
type DetectReport struct {
	RunID     string       `json:"run_id"`
	Success   bool         `json:"success"`
	Document  DocumentInfo `json:"document"`
	Findings  []Finding    `json:"findings"`
	Summary   Summary      `json:"summary"`
	ElapsedMS float64      `json:"elapsed_ms"`
}

// RedactInput detects and rewrites in one call. Detection tuning fields
// are shared with DetectInput
type RedactInput struct {
	DetectInput

	// Entities skips detection and redacts the given spans of Text as-is
	Entities []pii.Entity `json:"entities,omitempty" validate:"omitempty,max=1000"`

	// Strategy is the default redaction strategy; full_mask when empty
	Strategy string `json:"strategy,omitempty" example:"partial_mask"`

	// Strategies overrides the strategy per entity type
	Strategies map[string]string `json:"strategies,omitempty" validate:"omitempty,max=30"`

	// Replacements are literal per-type substitutions
	Replacements map[string]string `json:"replacements,omitempty" validate:"omitempty,max=30"`

	MaskChar       string `json:"mask_char,omitempty" validate:"omitempty,max=1" example:"*"`
	PreserveLength *bool  `json:"preserve_length,omitempty"`
}

// RedactReport is the redaction response body. RedactedText is the
// normalized text with every finding rewritten
type RedactReport struct {
	RunID        string         `json:"run_id"`
	Success      bool           `json:"success"`
	RedactedText string         `json:"redacted_text"`
	Counts       map[string]int `json:"counts"`
	Findings     []Finding      `json:"findings"`
	Reversible   bool           `json:"reversible"`
	ElapsedMS    float64        `json:"elapsed_ms"`
}

// ReverseInput resolves a token back to its original value
type ReverseInput struct {
	Token string `json:"token" validate:"required,min=5"`
}

// ReverseReport carries the recovered value
type ReverseReport struct {
	Value string `json:"value"`
}

// PatternInput registers a custom detection pattern
type PatternInput struct {
	Name       string  `json:"name" validate:"required,min=1,max=64"`
	Pattern    string  `json:"pattern" validate:"required,min=1,max=500"`
	Type       string  `json:"type,omitempty" validate:"omitempty,min=1,max=64"`
	Confidence float64 `json:"confidence" validate:"required,gt=0,lte=1"`
}

// PatternList names the registered custom patterns
type PatternList struct {
	Patterns []string `json:"patterns"`
}

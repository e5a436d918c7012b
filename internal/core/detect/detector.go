// Package detect finds PII candidates in normalized text. A set of
// detectors runs concurrently over the input; their raw matches are
// merged, filtered, and ordered into a single candidate list
package detect

import (
	"context"
	"time"
	"unicode/utf8"

	"scrubber/internal/core/pii"
)

// Detector is a single detection strategy. Implementations must be safe
// for concurrent use; Detect is called from pipeline worker goroutines
type Detector interface {
	// Name identifies the detector in provenance and stats
	Name() string

	// Types lists the entity types this detector can emit
	Types() []pii.EntityType

	// Detect scans text and returns raw candidates with byte offsets
	Detect(ctx context.Context, text string) ([]pii.Candidate, error)
}

// Options tunes a single pipeline run. The zero value picks the defaults
type Options struct {
	// Types restricts output to the given entity types; empty means all
	Types []pii.EntityType

	// Detectors restricts the run to the named detectors; empty means all
	Detectors []string

	// MergeThreshold is the minimum overlap ratio at which two spans are
	// considered the same finding
	MergeThreshold float64

	// MinConfidence drops merged candidates below this score
	MinConfidence float64

	// Timeout bounds each detector individually
	Timeout time.Duration

	// ContextWindow is the surrounding-text size used during enrichment
	ContextWindow int
}

// Defaults matching typical scanning behavior
const (
	DefaultMergeThreshold = 0.7
	DefaultMinConfidence  = 0.5
	DefaultTimeout        = 2 * time.Second
	DefaultContextWindow  = 50
)

func (o Options) withDefaults() Options {
	if o.MergeThreshold <= 0 {
		o.MergeThreshold = DefaultMergeThreshold
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ContextWindow <= 0 {
		o.ContextWindow = DefaultContextWindow
	}
	return o
}

func (o Options) wantsType(t pii.EntityType) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, w := range o.Types {
		if w == t {
			return true
		}
	}
	return false
}

func (o Options) wantsDetector(name string) bool {
	if len(o.Detectors) == 0 {
		return true
	}
	for _, w := range o.Detectors {
		if w == name {
			return true
		}
	}
	return false
}

// contextAround returns up to window bytes on each side of [start,end),
// nudged to rune boundaries so slices never split a character
func contextAround(text string, start, end, window int) (before, after string) {
	b := start - window
	if b < 0 {
		b = 0
	}
	for b > 0 && !utf8.RuneStart(text[b]) {
		b--
	}
	a := end + window
	if a > len(text) {
		a = len(text)
	}
	for a < len(text) && !utf8.RuneStart(text[a]) {
		a++
	}
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) {
		end = len(text)
	}
	return text[b:start], text[end:a]
}

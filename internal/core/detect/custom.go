package detect

import (
	"context"
	"regexp"
	"sync"

	"scrubber/internal/core/pii"
	perr "scrubber/internal/platform/errors"
)

// CustomDetector holds caller-registered patterns, for tenant- or
// deployment-specific identifiers the built-in detectors do not know.
// Registration and detection are safe to interleave
type CustomDetector struct {
	mu       sync.RWMutex
	name     string
	patterns map[string]rulePattern
}

// NewCustomDetector returns an empty custom detector
func NewCustomDetector() *CustomDetector {
	return &CustomDetector{name: "custom", patterns: map[string]rulePattern{}}
}

// AddPattern registers (or replaces) a named pattern. The expression must
// compile and the confidence must sit in (0, 1]. An empty entity type
// defaults to pii.TypeCustom
func (d *CustomDetector) AddPattern(name, expr string, typ pii.EntityType, confidence float64) error {
	if name == "" {
		return perr.InvalidInputf("pattern name is required")
	}
	if confidence <= 0 || confidence > 1 {
		return perr.InvalidInputf("confidence %v out of range (0, 1]", confidence)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return perr.InvalidInputf("pattern %q does not compile: %v", name, err)
	}
	if typ == "" {
		typ = pii.TypeCustom
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.patterns[name] = rulePattern{typ: typ, re: re, conf: confidence}
	return nil
}

// RemovePattern unregisters a pattern, reporting whether it existed
func (d *CustomDetector) RemovePattern(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.patterns[name]
	delete(d.patterns, name)
	return ok
}

// Patterns lists registered pattern names
func (d *CustomDetector) Patterns() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.patterns))
	for n := range d.patterns {
		out = append(out, n)
	}
	return out
}

// Name implements Detector
func (d *CustomDetector) Name() string { return d.name }

// Types implements Detector
func (d *CustomDetector) Types() []pii.EntityType {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := map[pii.EntityType]bool{}
	var out []pii.EntityType
	for _, p := range d.patterns {
		if !seen[p.typ] {
			seen[p.typ] = true
			out = append(out, p.typ)
		}
	}
	return out
}

// Detect implements Detector
func (d *CustomDetector) Detect(ctx context.Context, text string) ([]pii.Candidate, error) {
	d.mu.RLock()
	patterns := make([]rulePattern, 0, len(d.patterns))
	for _, p := range d.patterns {
		patterns = append(patterns, p)
	}
	d.mu.RUnlock()

	if len(patterns) == 0 {
		return nil, nil
	}
	return runPatterns(ctx, d.name, patterns, text)
}

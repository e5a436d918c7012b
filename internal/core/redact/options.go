// Package redact rewrites detected entities out of text. Seven
// strategies are supported, from plain removal through masking to
// reversible tokenization
package redact

import (
	"scrubber/internal/core/pii"
	perr "scrubber/internal/platform/errors"
)

// Strategy names a redaction technique
type Strategy string

// Redaction strategies
const (
	StrategyNone         Strategy = "none"
	StrategyRemove       Strategy = "full_removal"
	StrategyMask         Strategy = "full_mask"
	StrategyPartialMask  Strategy = "partial_mask"
	StrategyTokenize     Strategy = "tokenize"
	StrategyPseudonymize Strategy = "pseudonymize"
	StrategyGeneralize   Strategy = "generalize"
)

var knownStrategies = map[Strategy]bool{
	StrategyNone:         true,
	StrategyRemove:       true,
	StrategyMask:         true,
	StrategyPartialMask:  true,
	StrategyTokenize:     true,
	StrategyPseudonymize: true,
	StrategyGeneralize:   true,
}

// ParseStrategy validates a strategy name from the outside world
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	if !knownStrategies[st] {
		return "", perr.InvalidInputf("unknown redaction strategy %q", s)
	}
	return st, nil
}

// Options tunes one redaction run
type Options struct {
	// Default applies to every entity without a per-type override
	Default Strategy

	// PerType overrides the strategy for specific entity types
	PerType map[pii.EntityType]Strategy

	// Replacements are literal substitutions checked before any
	// strategy runs
	Replacements map[pii.EntityType]string

	// MaskChar fills masked spans
	MaskChar rune

	// PreserveLength makes full masks match the original rune count
	// instead of a fixed width
	PreserveLength bool
}

// DefaultOptions is a full mask preserving length, the safe middle
// ground between readability and leakage
func DefaultOptions() Options {
	return Options{
		Default:        StrategyMask,
		MaskChar:       '*',
		PreserveLength: true,
	}
}

func (o Options) withDefaults() Options {
	if o.Default == "" {
		o.Default = StrategyMask
	}
	if o.MaskChar == 0 {
		o.MaskChar = '*'
	}
	return o
}

// strategyFor resolves the strategy for one entity type
func (o Options) strategyFor(typ pii.EntityType) Strategy {
	if s, ok := o.PerType[typ]; ok {
		return s
	}
	return o.Default
}

// Validate rejects unknown strategy names anywhere in the options
func (o Options) Validate() error {
	if o.Default != "" && !knownStrategies[o.Default] {
		return perr.InvalidInputf("unknown redaction strategy %q", o.Default)
	}
	for typ, s := range o.PerType {
		if !knownStrategies[s] {
			return perr.InvalidInputf("unknown redaction strategy %q for type %s", s, typ)
		}
	}
	return nil
}

package redact

import (
	"context"
	"sort"
	"strings"
	"time"

	"scrubber/internal/core/pii"
	perr "scrubber/internal/platform/errors"
	"scrubber/internal/platform/logger"
)

// Engine applies redaction strategies to text. The tokenization secret
// is bound at construction and lives for the process: tokens minted by
// one engine reverse under any engine built with the same secret
type Engine struct {
	tok *Tokenizer
	log *logger.Logger
}

// NewEngine builds an engine. An empty secret disables reversible
// tokenization; the tokenize strategy then falls back to hash tokens
func NewEngine(secret string) (*Engine, error) {
	e := &Engine{log: logger.Named("redact")}
	if secret != "" {
		tok, err := NewTokenizer(secret)
		if err != nil {
			return nil, err
		}
		e.tok = tok
	}
	return e, nil
}

// Reversible reports whether the engine can mint reversible tokens
func (e *Engine) Reversible() bool { return e.tok != nil }

// Reverse resolves a token minted under the engine's secret back to the
// original value
func (e *Engine) Reverse(token string) (string, error) {
	if e.tok == nil {
		return "", perr.TokenIrreversiblef("no tokenization secret is configured")
	}
	return e.tok.Reverse(token)
}

// Result is one redaction run's output. Entities carry their
// replacement text and are ordered by position
type Result struct {
	OriginalText string
	RedactedText string
	Counts       map[pii.EntityType]int
	Entities     []pii.Entity
	Elapsed      time.Duration
}

// Redact rewrites every entity span in text according to the options.
// Spans are applied end to start so earlier offsets stay valid while
// later ones are rewritten. Entities with spans outside the text are
// skipped, not fatal
func (e *Engine) Redact(ctx context.Context, text string, entities []pii.Entity, opt Options) (Result, error) {
	opt = opt.withDefaults()
	if err := opt.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	ordered := make([]pii.Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	out := Result{
		OriginalText: text,
		Counts:       map[pii.EntityType]int{},
	}

	redacted := text
	kept := make([]pii.Entity, 0, len(ordered))
	for _, ent := range ordered {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if ent.Start < 0 || ent.End > len(text) || ent.Start >= ent.End {
			e.log.Warn().
				Str("type", string(ent.Type)).
				Int("start", ent.Start).
				Int("end", ent.End).
				Msg("entity span outside text; skipped")
			continue
		}

		strategy := opt.strategyFor(ent.Type)
		replacement, method, counted, err := e.apply(strategy, ent, opt)
		if err != nil {
			return Result{}, err
		}

		redacted = redacted[:ent.Start] + replacement + redacted[ent.End:]
		ent.RedactedText = replacement
		ent.SetMeta("redaction_strategy", string(strategy))
		ent.SetMeta("redaction_method", method)
		ent.SetMeta("reversible", method == methodTokenAEAD)
		kept = append(kept, ent)
		if counted {
			out.Counts[ent.Type]++
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	out.Entities = kept
	out.RedactedText = redacted
	out.Elapsed = time.Since(start)
	return out, nil
}

// Masking methods recorded in per-entity audit metadata. Only AEAD
// tokens can be reversed
const (
	methodLiteral    = "literal_replacement"
	methodNone       = "none"
	methodRemoval    = "removal"
	methodMask       = "character_mask"
	methodPartial    = "partial_mask"
	methodTokenAEAD  = "token_aes_gcm"
	methodTokenHash  = "token_sha256"
	methodPseudonym  = "deterministic_pseudonym"
	methodGeneralize = "category_placeholder"
)

// apply produces the replacement for one entity plus the method label
// for the audit trail. The bool reports whether the entity counts as
// redacted
func (e *Engine) apply(strategy Strategy, ent pii.Entity, opt Options) (string, string, bool, error) {
	if repl, ok := opt.Replacements[ent.Type]; ok {
		return repl, methodLiteral, true, nil
	}

	switch strategy {
	case StrategyNone:
		return ent.Text, methodNone, false, nil
	case StrategyRemove:
		return "", methodRemoval, true, nil
	case StrategyMask:
		n := 5
		if opt.PreserveLength {
			n = len([]rune(ent.Text))
		}
		return strings.Repeat(string(opt.MaskChar), n), methodMask, true, nil
	case StrategyPartialMask:
		return partialMask(ent.Type, ent.Text, opt.MaskChar), methodPartial, true, nil
	case StrategyTokenize:
		if e.tok == nil {
			return HashToken(ent.Text), methodTokenHash, true, nil
		}
		token, err := e.tok.Tokenize(ent.Text)
		if err != nil {
			return "", "", false, err
		}
		return token, methodTokenAEAD, true, nil
	case StrategyPseudonymize:
		return pseudonym(ent.Type, ent.Text), methodPseudonym, true, nil
	case StrategyGeneralize:
		return generalize(ent.Type), methodGeneralize, true, nil
	default:
		return "", "", false, perr.InvalidInputf("unknown redaction strategy %q", strategy)
	}
}

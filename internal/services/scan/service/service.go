// Package service contains scan workflows: normalize, detect, enrich,
// redact
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"scrubber/internal/core/detect"
	"scrubber/internal/core/pii"
	"scrubber/internal/core/redact"
	"scrubber/internal/core/textnorm"
	perr "scrubber/internal/platform/errors"
	"scrubber/internal/platform/logger"
	"scrubber/internal/services/scan/domain"
)

// Service defines the scan service contract
type Service interface {
	domain.ServicePort
}

// Config carries process-lifetime scan settings
type Config struct {
	// TokenSecret enables reversible tokenization when non-empty
	TokenSecret string

	// MergeThreshold and MinConfidence are server-side defaults; request
	// options override them per call
	MergeThreshold float64
	MinConfidence  float64

	// DetectorTimeout bounds each detector per run
	DetectorTimeout time.Duration
}

// Svc implements the scan service
type Svc struct {
	cfg    Config
	norm   *textnorm.Normalizer
	pipe   *detect.Pipeline
	custom *detect.CustomDetector
	enrich *detect.Enricher
	engine *redact.Engine
	log    *logger.Logger
}

// New constructs a scan service over the default detector set
func New(cfg Config) (*Svc, error) {
	engine, err := redact.NewEngine(cfg.TokenSecret)
	if err != nil {
		return nil, err
	}
	pipe, custom := detect.NewDefaultPipeline()
	return &Svc{
		cfg:    cfg,
		norm:   textnorm.New(),
		pipe:   pipe,
		custom: custom,
		enrich: detect.NewEnricher(),
		engine: engine,
		log:    logger.Named("scan"),
	}, nil
}

// Detect normalizes, scans, enriches, and reports
func (s *Svc) Detect(ctx context.Context, in domain.DetectInput) (domain.DetectReport, error) {
	started := time.Now()

	doc, ents, err := s.scan(ctx, in)
	if err != nil {
		return domain.DetectReport{}, err
	}

	report := domain.DetectReport{
		RunID:     uuid.NewString(),
		Success:   true,
		Document:  documentInfo(doc),
		Findings:  findings(ents),
		Summary:   summarize(ents, len(doc.OriginalText)),
		ElapsedMS: float64(time.Since(started).Microseconds()) / 1000,
	}
	return report, nil
}

// Redact runs Detect's flow and rewrites the findings out of the
// caller's text
func (s *Svc) Redact(ctx context.Context, in domain.RedactInput) (domain.RedactReport, error) {
	started := time.Now()

	if strings.TrimSpace(in.Text) == "" {
		return domain.RedactReport{}, perr.InvalidInputf("text is empty")
	}

	opt, err := redactOptions(in)
	if err != nil {
		return domain.RedactReport{}, err
	}

	// Caller-supplied entities skip detection: spans address Text as given
	if len(in.Entities) > 0 {
		res, err := s.engine.Redact(ctx, in.Text, in.Entities, opt)
		if err != nil {
			return domain.RedactReport{}, err
		}
		return redactReport(res, findings(res.Entities), s.engine.Reversible() && usesTokenize(opt), started), nil
	}

	doc, ents, err := s.scan(ctx, in.DetectInput)
	if err != nil {
		return domain.RedactReport{}, err
	}

	res, err := s.engine.Redact(ctx, doc.OriginalText, ents, opt)
	if err != nil {
		return domain.RedactReport{}, err
	}
	return redactReport(res, findings(res.Entities), s.engine.Reversible() && usesTokenize(opt), started), nil
}

func redactReport(res redact.Result, fs []domain.Finding, reversible bool, started time.Time) domain.RedactReport {
	counts := make(map[string]int, len(res.Counts))
	for typ, n := range res.Counts {
		counts[string(typ)] = n
	}
	return domain.RedactReport{
		RunID:        uuid.NewString(),
		Success:      true,
		RedactedText: res.RedactedText,
		Counts:       counts,
		Findings:     fs,
		Reversible:   reversible,
		ElapsedMS:    float64(time.Since(started).Microseconds()) / 1000,
	}
}

// Reverse resolves a token minted by this deployment's secret
func (s *Svc) Reverse(ctx context.Context, in domain.ReverseInput) (domain.ReverseReport, error) {
	value, err := s.engine.Reverse(in.Token)
	if err != nil {
		return domain.ReverseReport{}, err
	}
	return domain.ReverseReport{Value: value}, nil
}

// Stats returns process-lifetime detection counters
func (s *Svc) Stats(ctx context.Context) (detect.Snapshot, error) {
	return s.pipe.Stats().Snapshot(), nil
}

// ResetStats zeroes the counters
func (s *Svc) ResetStats(ctx context.Context) error {
	s.pipe.Stats().Reset()
	return nil
}

// AddPattern registers a custom detection pattern
func (s *Svc) AddPattern(ctx context.Context, in domain.PatternInput) error {
	typ := pii.EntityType(in.Type)
	return s.custom.AddPattern(in.Name, in.Pattern, typ, in.Confidence)
}

// RemovePattern unregisters a custom pattern
func (s *Svc) RemovePattern(ctx context.Context, name string) error {
	if !s.custom.RemovePattern(name) {
		return perr.NotFoundf("no custom pattern named %q", name)
	}
	return nil
}

// Patterns lists registered custom patterns
func (s *Svc) Patterns(ctx context.Context) (domain.PatternList, error) {
	return domain.PatternList{Patterns: s.custom.Patterns()}, nil
}

// scan is the shared normalize-detect-enrich front half
func (s *Svc) scan(ctx context.Context, in domain.DetectInput) (*textnorm.Document, []pii.Entity, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, nil, perr.InvalidInputf("text is empty")
	}
	steps, err := textnorm.ParseSteps(in.Steps)
	if err != nil {
		return nil, nil, err
	}
	types, err := parseTypes(in.Types)
	if err != nil {
		return nil, nil, err
	}

	doc := s.norm.Normalize(in.Text, steps...)
	for _, w := range doc.Warnings {
		s.log.Debug().Str("warning", w).Msg("normalization warning")
	}

	opt := detect.Options{
		Types:          types,
		Detectors:      in.Detectors,
		MergeThreshold: pick(in.MergeThreshold, s.cfg.MergeThreshold),
		MinConfidence:  pick(in.MinConfidence, s.cfg.MinConfidence),
		Timeout:        s.cfg.DetectorTimeout,
		ContextWindow:  in.ContextWindow,
	}

	cands, err := s.pipe.Process(ctx, doc.Text, opt)
	if err != nil {
		return nil, nil, err
	}

	// Move spans back onto the caller's text before enrichment, so
	// context, validation, and redaction all work in original
	// coordinates. Spans that normalization cannot map keep their
	// normalized position, annotated as such
	for i := range cands {
		os, oe := doc.MapRange(cands[i].Start, cands[i].End)
		if os < 0 || oe < 0 {
			cands[i].SetMeta("position_space", "normalized")
			continue
		}
		cands[i].SetMeta("normalized_start", cands[i].Start)
		cands[i].SetMeta("normalized_end", cands[i].End)
		cands[i].Start, cands[i].End = os, oe
		cands[i].Text = doc.OriginalText[os:oe]
	}

	ents := s.enrich.Enrich(doc.OriginalText, cands, opt.ContextWindow)
	return doc, ents, nil
}

func pick(requested, configured float64) float64 {
	if requested > 0 {
		return requested
	}
	return configured
}

func parseTypes(names []string) ([]pii.EntityType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	known := map[pii.EntityType]bool{}
	for _, t := range pii.Types() {
		known[t] = true
	}
	out := make([]pii.EntityType, 0, len(names))
	for _, n := range names {
		t := pii.EntityType(n)
		if !known[t] {
			return nil, perr.InvalidInputf("unknown entity type %q", n)
		}
		out = append(out, t)
	}
	return out, nil
}

func redactOptions(in domain.RedactInput) (redact.Options, error) {
	opt := redact.DefaultOptions()
	if in.Strategy != "" {
		st, err := redact.ParseStrategy(in.Strategy)
		if err != nil {
			return redact.Options{}, err
		}
		opt.Default = st
	}
	if len(in.Strategies) > 0 {
		opt.PerType = make(map[pii.EntityType]redact.Strategy, len(in.Strategies))
		for typ, name := range in.Strategies {
			st, err := redact.ParseStrategy(name)
			if err != nil {
				return redact.Options{}, err
			}
			opt.PerType[pii.EntityType(typ)] = st
		}
	}
	if len(in.Replacements) > 0 {
		opt.Replacements = make(map[pii.EntityType]string, len(in.Replacements))
		for typ, repl := range in.Replacements {
			opt.Replacements[pii.EntityType(typ)] = repl
		}
	}
	if in.MaskChar != "" {
		opt.MaskChar = []rune(in.MaskChar)[0]
	}
	if in.PreserveLength != nil {
		opt.PreserveLength = *in.PreserveLength
	}
	return opt, nil
}

func usesTokenize(opt redact.Options) bool {
	if opt.Default == redact.StrategyTokenize {
		return true
	}
	for _, st := range opt.PerType {
		if st == redact.StrategyTokenize {
			return true
		}
	}
	return false
}

package detect

import (
	"context"
	"sort"
	"sync"

	"scrubber/internal/core/pii"
	perr "scrubber/internal/platform/errors"
	"scrubber/internal/platform/logger"
)

// Pipeline fans text out to a set of detectors and folds their findings
// into one merged, filtered, ordered candidate list. Detector failures
// are isolated: a panicking or erroring detector costs its own findings
// only
type Pipeline struct {
	mu        sync.RWMutex
	detectors []Detector
	stats     *Stats
	log       *logger.Logger
}

// NewPipeline builds a pipeline over the given detectors
func NewPipeline(detectors ...Detector) *Pipeline {
	return &Pipeline{
		detectors: detectors,
		stats:     NewStats(),
		log:       logger.Named("detect"),
	}
}

// NewDefaultPipeline wires the built-in detectors plus an empty custom
// detector for runtime registration
func NewDefaultPipeline() (*Pipeline, *CustomDetector) {
	custom := NewCustomDetector()
	p := NewPipeline(
		NewRuleDetector(),
		NewFinancialDetector(),
		NewHealthcareDetector(),
		custom,
	)
	return p, custom
}

// Add registers a detector. Replaces any existing detector of the same name
func (p *Pipeline) Add(d Detector) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, have := range p.detectors {
		if have.Name() == d.Name() {
			p.detectors[i] = d
			return
		}
	}
	p.detectors = append(p.detectors, d)
}

// Remove unregisters a detector by name, reporting whether it existed
func (p *Pipeline) Remove(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, have := range p.detectors {
		if have.Name() == name {
			p.detectors = append(p.detectors[:i], p.detectors[i+1:]...)
			return true
		}
	}
	return false
}

// DetectorNames lists registered detectors in registration order
func (p *Pipeline) DetectorNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.detectors))
	for i, d := range p.detectors {
		out[i] = d.Name()
	}
	return out
}

// Stats exposes the pipeline's running counters
func (p *Pipeline) Stats() *Stats { return p.stats }

type detectorResult struct {
	name  string
	cands []pii.Candidate
	err   error
}

// Process runs every enabled detector over text concurrently, then
// merges overlapping findings, drops low-confidence candidates, and
// orders the result by confidence (ties by start offset)
func (p *Pipeline) Process(ctx context.Context, text string, opt Options) ([]pii.Candidate, error) {
	opt = opt.withDefaults()

	p.mu.RLock()
	detectors := make([]Detector, 0, len(p.detectors))
	for _, d := range p.detectors {
		if opt.wantsDetector(d.Name()) {
			detectors = append(detectors, d)
		}
	}
	p.mu.RUnlock()

	if len(detectors) == 0 {
		return nil, perr.InvalidInputf("no detectors matched the requested set")
	}

	results := make(chan detectorResult, len(detectors))
	var wg sync.WaitGroup
	for _, d := range detectors {
		wg.Add(1)
		go func(d Detector) {
			defer wg.Done()
			dctx, cancel := context.WithTimeout(ctx, opt.Timeout)
			defer cancel()

			res := detectorResult{name: d.Name()}
			func() {
				defer func() {
					if r := recover(); r != nil {
						res.err = perr.Newf(perr.ErrorCodePanic, "detector %s panicked: %v", d.Name(), r)
					}
				}()
				res.cands, res.err = d.Detect(dctx, text)
			}()
			results <- res
		}(d)
	}
	wg.Wait()
	close(results)

	var raw []pii.Candidate
	for res := range results {
		if res.err != nil {
			// One bad detector never sinks the scan
			p.log.Warn().Err(res.err).Str("detector", res.name).Msg("detector failed; findings skipped")
			continue
		}
		for _, c := range res.cands {
			if opt.wantsType(c.Type) {
				raw = append(raw, c)
			}
		}
	}

	merged := mergeCandidates(raw, opt.MergeThreshold)

	out := merged[:0]
	for _, c := range merged {
		if c.Confidence >= opt.MinConfidence {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Start < out[j].Start
	})

	p.stats.Record(out)
	return out, ctx.Err()
}

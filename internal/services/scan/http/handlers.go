// Package http provides http transport for scan
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	phttp "scrubber/internal/platform/net/http"
	"scrubber/internal/services/scan/domain"
	svc "scrubber/internal/services/scan/service"
)

// Register mounts scan endpoints on the given router
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}

	// detection and redaction over posted text
	phttp.PostJSON[domain.DetectInput](r, "/detect", h.detect)
	phttp.PostJSON[domain.RedactInput](r, "/redact", h.redact)
	phttp.PostJSON[domain.ReverseInput](r, "/reverse", h.reverse)

	// process-lifetime counters
	phttp.GetJSON(r, "/stats", h.stats)
	r.Delete("/stats", phttp.Handle(h.resetStats))

	// custom pattern registration
	phttp.GetJSON(r, "/patterns", h.patterns)
	phttp.PostJSON[domain.PatternInput](r, "/patterns", h.addPattern)
	r.Delete("/patterns/{name}", phttp.Handle(h.removePattern))
}

type handlers struct{ svc svc.Service }

func (h *handlers) detect(r *stdhttp.Request, in domain.DetectInput) (any, error) {
	return h.svc.Detect(r.Context(), in)
}

func (h *handlers) redact(r *stdhttp.Request, in domain.RedactInput) (any, error) {
	return h.svc.Redact(r.Context(), in)
}

func (h *handlers) reverse(r *stdhttp.Request, in domain.ReverseInput) (any, error) {
	return h.svc.Reverse(r.Context(), in)
}

func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.svc.Stats(r.Context())
}

func (h *handlers) resetStats(r *stdhttp.Request) phttp.Response {
	if err := h.svc.ResetStats(r.Context()); err != nil {
		return phttp.Error(err)
	}
	return phttp.NoContent()
}

func (h *handlers) patterns(r *stdhttp.Request) (any, error) {
	return h.svc.Patterns(r.Context())
}

func (h *handlers) addPattern(r *stdhttp.Request, in domain.PatternInput) (any, error) {
	if err := h.svc.AddPattern(r.Context(), in); err != nil {
		return nil, err
	}
	return in.Name, nil
}

func (h *handlers) removePattern(r *stdhttp.Request) phttp.Response {
	name := chi.URLParam(r, "name")
	if err := h.svc.RemovePattern(r.Context(), name); err != nil {
		return phttp.Error(err)
	}
	return phttp.NoContent()
}

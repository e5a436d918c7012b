package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "scrubber/internal/platform/net/http"
	svc "scrubber/internal/services/scan/service"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	s, err := svc.New(svc.Config{
		TokenSecret:     "test-secret",
		MergeThreshold:  0.7,
		MinConfidence:   0.5,
		DetectorTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	Register(r, s)
	return mux
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDetectEndpoint(t *testing.T) {
	h := testRouter(t)

	rec := postJSON(t, h, "/detect", map[string]any{
		"text": "Contact John Smith at john.smith@company.com or 555-123-4567, SSN 123-45-6789",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}

	var env struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Success  bool `json:"success"`
			Findings []struct {
				Type       string  `json:"type"`
				Confidence float64 `json:"confidence"`
			} `json:"findings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.StatusCode != http.StatusOK || !env.Data.Success {
		t.Fatalf("envelope = %+v", env)
	}
	if len(env.Data.Findings) < 4 {
		t.Fatalf("findings = %+v", env.Data.Findings)
	}
}

func TestDetectEndpoint_ValidatesBody(t *testing.T) {
	h := testRouter(t)

	// Missing required text
	rec := postJSON(t, h, "/detect", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRedactAndReverseEndpoints(t *testing.T) {
	h := testRouter(t)

	rec := postJSON(t, h, "/redact", map[string]any{
		"text":     "SSN 123-45-6789 here",
		"strategy": "tokenize",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("redact status = %d body %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data struct {
			RedactedText string `json:"redacted_text"`
			Findings     []struct {
				RedactedText string `json:"redacted_text"`
			} `json:"findings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Findings) == 0 {
		t.Fatalf("no findings: %s", rec.Body.String())
	}
	token := env.Data.Findings[0].RedactedText

	rec = postJSON(t, h, "/reverse", map[string]any{"token": token})
	if rec.Code != http.StatusOK {
		t.Fatalf("reverse status = %d body %s", rec.Code, rec.Body.String())
	}
	var rev struct {
		Data struct {
			Value string `json:"value"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rev.Data.Value != "123-45-6789" {
		t.Fatalf("reversed = %q", rev.Data.Value)
	}
}

func TestStatsEndpoints(t *testing.T) {
	h := testRouter(t)

	postJSON(t, h, "/detect", map[string]any{"text": "mail a@b.co now"})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var env struct {
		Data struct {
			Scans int `json:"scans"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Scans != 1 {
		t.Fatalf("scans = %d", env.Data.Scans)
	}

	req = httptest.NewRequest(http.MethodDelete, "/stats", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rec.Code)
	}
}

func TestPatternEndpoints(t *testing.T) {
	h := testRouter(t)

	rec := postJSON(t, h, "/patterns", map[string]any{
		"name": "badge", "pattern": `\bEMP-\d{5}\b`, "confidence": 0.9,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d body %s", rec.Code, rec.Body.String())
	}

	// Broken expression is a 400
	rec = postJSON(t, h, "/patterns", map[string]any{
		"name": "bad", "pattern": `(`, "confidence": 0.9,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad pattern status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/patterns/badge", nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/patterns/badge", nil)
	rec2 = httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec2.Code)
	}
}

package detect

import (
	"context"
	"testing"

	"scrubber/internal/core/pii"
)

type stubDetector struct {
	name  string
	cands []pii.Candidate
	err   error
	panic bool
}

func (d *stubDetector) Name() string            { return d.name }
func (d *stubDetector) Types() []pii.EntityType { return []pii.EntityType{pii.TypeCustom} }
func (d *stubDetector) Detect(ctx context.Context, text string) ([]pii.Candidate, error) {
	if d.panic {
		panic("boom")
	}
	return d.cands, d.err
}

func TestPipeline_Scenario(t *testing.T) {
	text := "Contact John Smith at john.smith@company.com or 555-123-4567, SSN 123-45-6789"
	p := NewPipeline(NewRuleDetector())

	cands, err := p.Process(context.Background(), text, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) < 4 {
		t.Fatalf("got %d candidates, want at least 4: %+v", len(cands), cands)
	}

	byType := map[pii.EntityType]pii.Candidate{}
	for _, c := range cands {
		if c.Confidence < 0.5 {
			t.Fatalf("candidate below floor survived: %+v", c)
		}
		byType[c.Type] = c
	}
	for _, want := range []pii.EntityType{pii.TypeEmail, pii.TypePhone, pii.TypeSSN, pii.TypePerson} {
		if _, ok := byType[want]; !ok {
			t.Fatalf("missing %s in %+v", want, cands)
		}
	}
	if got := byType[pii.TypePerson].Text; got != "John Smith" {
		t.Fatalf("person = %q, want John Smith", got)
	}
	if got := byType[pii.TypePhone].Text; got != "555-123-4567" {
		t.Fatalf("phone = %q", got)
	}

	// Spans address the scanned text exactly
	for _, c := range cands {
		if text[c.Start:c.End] != c.Text {
			t.Fatalf("span mismatch for %s: %q vs %q", c.Type, text[c.Start:c.End], c.Text)
		}
	}

	// Ordered by confidence, ties by start
	for i := 1; i < len(cands); i++ {
		a, b := cands[i-1], cands[i]
		if a.Confidence < b.Confidence {
			t.Fatalf("order violated at %d", i)
		}
		if a.Confidence == b.Confidence && a.Start > b.Start {
			t.Fatalf("tie order violated at %d", i)
		}
	}
}

func TestPipeline_FailingDetectorIsolated(t *testing.T) {
	text := "reach me at jane.doe@corp.example.org"
	good := NewRuleDetector()
	bad := &stubDetector{name: "flaky", err: context.DeadlineExceeded}
	angry := &stubDetector{name: "angry", panic: true}

	p := NewPipeline(good, bad, angry)
	cands, err := p.Process(context.Background(), text, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, c := range cands {
		if c.Type == pii.TypeEmail {
			found = true
		}
	}
	if !found {
		t.Fatalf("healthy detector findings lost: %+v", cands)
	}
}

func TestPipeline_TypeFilter(t *testing.T) {
	text := "mail a@b.co or call 555-123-4567"
	p := NewPipeline(NewRuleDetector())

	cands, err := p.Process(context.Background(), text, Options{Types: []pii.EntityType{pii.TypePhone}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cands {
		if c.Type != pii.TypePhone {
			t.Fatalf("type filter leaked %s", c.Type)
		}
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1", len(cands))
	}
}

func TestPipeline_DetectorFilter(t *testing.T) {
	p := NewPipeline(NewRuleDetector(), NewFinancialDetector())

	if _, err := p.Process(context.Background(), "x", Options{Detectors: []string{"nope"}}); err == nil {
		t.Fatal("expected error when no detectors match")
	}

	cands, err := p.Process(context.Background(), "IBAN GB82WEST12345698765432", Options{Detectors: []string{"financial"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 || cands[0].Type != pii.TypeIBAN {
		t.Fatalf("got %+v, want one iban", cands)
	}
}

func TestPipeline_AddRemove(t *testing.T) {
	p := NewPipeline(NewRuleDetector())
	p.Add(&stubDetector{name: "extra"})
	if len(p.DetectorNames()) != 2 {
		t.Fatalf("names = %v", p.DetectorNames())
	}
	if !p.Remove("extra") {
		t.Fatal("remove reported false for registered detector")
	}
	if p.Remove("extra") {
		t.Fatal("remove reported true for missing detector")
	}
}

func TestPipeline_LuhnFailureFiltered(t *testing.T) {
	p := NewPipeline(NewRuleDetector())

	// Valid checksum survives with high confidence
	cands, err := p.Process(context.Background(), "card 4532015112830366 on file", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 || cands[0].Type != pii.TypeCreditCard {
		t.Fatalf("got %+v", cands)
	}
	if cands[0].Confidence < 0.9 {
		t.Fatalf("valid card confidence = %v", cands[0].Confidence)
	}

	// Broken checksum halves the confidence below the floor
	cands, err = p.Process(context.Background(), "card 4532015112830367 on file", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range cands {
		if c.Type == pii.TypeCreditCard {
			t.Fatalf("luhn-invalid card survived: %+v", c)
		}
	}
}

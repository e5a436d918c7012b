package textnorm

import (
	"strings"
	"testing"
)

func TestNormalize_StripControls(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "identity ascii", in: "hello world", out: "hello world"},
		{name: "nul and unit separator", in: "a\x00b\x1fc", out: "abc"},
		{name: "keeps tab newline cr", in: "a\tb\nc\rd", out: "a\tb\nc\rd"},
		{name: "zero width space dropped", in: "jo​hn", out: "john"},
		{name: "invalid utf8 dropped", in: string([]byte{'f', 0xff, 'o', 0x80, 'o'}), out: "foo"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := n.Normalize(tc.in, StepStripControls)
			if doc.Text != tc.out {
				t.Fatalf("got %q want %q", doc.Text, tc.out)
			}
		})
	}
}

func TestNormalize_StripControls_OffsetMap(t *testing.T) {
	doc := New().Normalize("a\x00b\x1fc", StepStripControls)
	if doc.Text != "abc" {
		t.Fatalf("text = %q", doc.Text)
	}
	// "bc" in normalized text sits at original bytes [2, 5)
	s, e := doc.MapRange(1, 3)
	if s != 2 || e != 5 {
		t.Fatalf("MapRange(1,3) = (%d,%d), want (2,5)", s, e)
	}
}

func TestNormalize_CollapseWhitespace(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "horizontal runs", in: "a  b\t\tc", out: "a b c"},
		{name: "single newline kept", in: "a \n b", out: "a\nb"},
		{name: "paragraph break kept", in: "a\n\n\n\nb", out: "a\n\nb"},
		{name: "nbsp treated as space", in: "a b", out: "a b"},
		{name: "mixed run with one newline", in: "a \t\n\t b", out: "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := n.Normalize(tc.in, StepCollapseWhitespace)
			if doc.Text != tc.out {
				t.Fatalf("got %q want %q", doc.Text, tc.out)
			}
		})
	}
}

func TestNormalize_NFKC(t *testing.T) {
	n := New()

	// Fullwidth digits fold to ASCII; byte length changes, so the map
	// degrades to approximate
	doc := n.Normalize("０１２", StepUnicodeNFKC)
	if doc.Text != "012" {
		t.Fatalf("text = %q", doc.Text)
	}
	if !doc.Approximate {
		t.Fatal("expected approximate flag after length change")
	}
	if len(doc.Warnings) == 0 {
		t.Fatal("expected a warning recording the approximation")
	}

	// ASCII input is untouched and stays exact
	doc = n.Normalize("plain text", StepUnicodeNFKC)
	if doc.Approximate {
		t.Fatal("ascii input must not be approximate")
	}
	if s, e := doc.MapRange(0, 5); s != 0 || e != 5 {
		t.Fatalf("MapRange = (%d,%d)", s, e)
	}
}

func TestMapRange_Sentinel(t *testing.T) {
	doc := New().Normalize("short", StepStripControls)

	for _, tc := range []struct{ s, e int }{
		{-1, 3},
		{0, 99},
		{4, 2},
	} {
		if s, e := doc.MapRange(tc.s, tc.e); s != -1 || e != -1 {
			t.Fatalf("MapRange(%d,%d) = (%d,%d), want (-1,-1)", tc.s, tc.e, s, e)
		}
	}
}

func TestNormalize_SegmentParagraphs(t *testing.T) {
	doc := New().Normalize("para one\n\npara two\n\n\npara three", StepSegmentParagraphs)
	if len(doc.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(doc.Segments))
	}
	for i, want := range []string{"para one", "para two", "para three"} {
		seg := doc.Segments[i]
		if seg.Text != want {
			t.Fatalf("segment %d text = %q, want %q", i, seg.Text, want)
		}
		if doc.Text[seg.Start:seg.End] != want {
			t.Fatalf("segment %d offsets [%d,%d) do not address %q", i, seg.Start, seg.End, want)
		}
		if seg.Index != i {
			t.Fatalf("segment %d index = %d", i, seg.Index)
		}
	}
}

func TestNormalize_DetectLanguage(t *testing.T) {
	doc := New().Normalize("こんにちは世界、元気ですか。今日はとても良い天気ですね。", StepDetectLanguage)
	if doc.Lang != "ja" {
		t.Fatalf("lang = %q, want ja", doc.Lang)
	}

	// Too short: no hint at all
	doc = New().Normalize("hi", StepDetectLanguage)
	if doc.Script != "" || doc.Lang != "" {
		t.Fatalf("short input produced hint (%q, %q)", doc.Script, doc.Lang)
	}
}

func TestNormalize_OCRCleanup(t *testing.T) {
	doc := New().Normalize("“hello” — world", StepOCRCleanup)
	if doc.Text != `"hello" - world` {
		t.Fatalf("text = %q", doc.Text)
	}
}

func TestNormalize_StripBoilerplate(t *testing.T) {
	in := "real content\nPage 3 of 9\nmore content"
	doc := New().Normalize(in, StepStripBoilerplate)
	if len(doc.Text) != len(in) {
		t.Fatalf("boilerplate blanking must preserve length: %d != %d", len(doc.Text), len(in))
	}
	if strings.Contains(doc.Text, "Page 3") {
		t.Fatalf("boilerplate survived: %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "real content") || !strings.Contains(doc.Text, "more content") {
		t.Fatalf("content damaged: %q", doc.Text)
	}
}

func TestNormalize_DefaultChain(t *testing.T) {
	doc := New().Normalize("Contact:  john.smith@company.com\n\n\nCall  555-123-4567")
	if doc.Text != "Contact: john.smith@company.com\n\nCall 555-123-4567" {
		t.Fatalf("text = %q", doc.Text)
	}
	if len(doc.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(doc.Segments))
	}
	// Email in normalized text maps back to its original location
	idx := strings.Index(doc.Text, "john.smith")
	s, e := doc.MapRange(idx, idx+len("john.smith@company.com"))
	if s == -1 {
		t.Fatal("email span unmappable")
	}
	if got := doc.OriginalText[s:e]; got != "john.smith@company.com" {
		t.Fatalf("mapped span = %q", got)
	}
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps([]string{"strip_controls", "unicode_nfkc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 2 || steps[0] != StepStripControls {
		t.Fatalf("steps = %v", steps)
	}

	if _, err := ParseSteps([]string{"sanitize_everything"}); err == nil {
		t.Fatal("expected error for unknown step")
	}
}

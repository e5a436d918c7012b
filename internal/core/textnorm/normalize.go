package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"scrubber/internal/core/langhint"
	perr "scrubber/internal/platform/errors"
)

// Step names a single normalization transform
type Step string

// Normalization steps. The default chain runs the first five in order;
// ocr_cleanup and strip_boilerplate are opt-in for scanned / templated
// documents
const (
	StepStripControls      Step = "strip_controls"
	StepCollapseWhitespace Step = "collapse_whitespace"
	StepUnicodeNFKC        Step = "unicode_nfkc"
	StepDetectLanguage     Step = "detect_language"
	StepSegmentParagraphs  Step = "segment_paragraphs"
	StepOCRCleanup         Step = "ocr_cleanup"
	StepStripBoilerplate   Step = "strip_boilerplate"
)

// DefaultSteps returns the standard chain in execution order
func DefaultSteps() []Step {
	return []Step{
		StepStripControls,
		StepCollapseWhitespace,
		StepUnicodeNFKC,
		StepDetectLanguage,
		StepSegmentParagraphs,
	}
}

var knownSteps = map[Step]bool{
	StepStripControls:      true,
	StepCollapseWhitespace: true,
	StepUnicodeNFKC:        true,
	StepDetectLanguage:     true,
	StepSegmentParagraphs:  true,
	StepOCRCleanup:         true,
	StepStripBoilerplate:   true,
}

// ParseSteps validates a list of step names from the outside world
func ParseSteps(names []string) ([]Step, error) {
	steps := make([]Step, 0, len(names))
	for _, n := range names {
		s := Step(strings.TrimSpace(n))
		if !knownSteps[s] {
			return nil, perr.InvalidInputf("unknown normalization step %q", n)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

// Normalizer runs normalization chains. Safe for concurrent use
type Normalizer struct{}

// New returns a ready Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize runs the given steps (or the default chain when none are
// given) over text. A failing step is recorded as a warning and skipped;
// the document always comes back usable
func (n *Normalizer) Normalize(text string, steps ...Step) *Document {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	doc := newDocument(text)
	for _, s := range steps {
		var err error
		switch s {
		case StepStripControls:
			stripControls(doc)
		case StepCollapseWhitespace:
			collapseWhitespace(doc)
		case StepUnicodeNFKC:
			normalizeNFKC(doc)
		case StepDetectLanguage:
			detectLanguage(doc)
		case StepSegmentParagraphs:
			segmentParagraphs(doc)
		case StepOCRCleanup:
			ocrCleanup(doc)
		case StepStripBoilerplate:
			stripBoilerplate(doc)
		default:
			err = perr.InvalidInputf("unknown step %q", s)
		}
		if err != nil {
			doc.warnf(string(s), err.Error())
			continue
		}
		doc.Steps = append(doc.Steps, string(s))
	}
	return doc
}

// keepControl reports whether a control-category rune survives stripping
func keepControl(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r'
}

// stripControls drops control and format characters plus invalid UTF-8
// bytes, byte-exactly
func stripControls(d *Document) {
	text := d.Text

	// Fast path: nothing to strip
	clean := true
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || (unicode.In(r, unicode.C) && !keepControl(r)) {
			clean = false
			break
		}
		i += size
	}
	if clean {
		return
	}

	var b strings.Builder
	b.Grow(len(text))
	newMap := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if (r == utf8.RuneError && size == 1) || (unicode.In(r, unicode.C) && !keepControl(r)) {
			i += size
			continue
		}
		for k := 0; k < size; k++ {
			newMap = append(newMap, d.posmap[i+k])
		}
		b.WriteString(text[i : i+size])
		i += size
	}
	newMap = append(newMap, d.posmap[len(text)])
	d.rewrite(b.String(), newMap)
}

// collapseWhitespace folds whitespace runs: runs containing two or more
// newlines become a paragraph break, one newline becomes a line break,
// horizontal runs become a single space
func collapseWhitespace(d *Document) {
	text := d.Text

	var b strings.Builder
	b.Grow(len(text))
	newMap := make([]int, 0, len(text)+1)

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			for k := 0; k < size; k++ {
				newMap = append(newMap, d.posmap[i+k])
			}
			b.WriteString(text[i : i+size])
			i += size
			continue
		}

		runStart := i
		newlines := 0
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			if r == '\n' {
				newlines++
			}
			i += size
		}

		var rep string
		switch {
		case newlines >= 2:
			rep = "\n\n"
		case newlines == 1:
			rep = "\n"
		default:
			rep = " "
		}
		for k := 0; k < len(rep); k++ {
			newMap = append(newMap, d.posmap[runStart])
		}
		b.WriteString(rep)
	}
	newMap = append(newMap, d.posmap[len(text)])
	d.rewrite(b.String(), newMap)
}

// normalizeNFKC applies Unicode compatibility normalization. When the
// byte length survives, offsets stay exact; otherwise the map degrades
// to a proportional approximation and the document is flagged
func normalizeNFKC(d *Document) {
	text := d.Text
	out := norm.NFKC.String(text)
	if out == text {
		return
	}
	if len(out) == len(text) {
		// Same length: positions line up one-to-one
		d.Text = out
		return
	}

	newMap := make([]int, len(out)+1)
	ratio := float64(len(text)) / float64(len(out))
	for i := 0; i < len(out); i++ {
		j := int(float64(i) * ratio)
		if j > len(text) {
			j = len(text)
		}
		newMap[i] = d.posmap[j]
	}
	newMap[len(out)] = d.posmap[len(text)]
	d.rewrite(out, newMap)
	d.Approximate = true
	d.warnf(string(StepUnicodeNFKC), "length changed during normalization; offset map is approximate")
}

func detectLanguage(d *Document) {
	if len(d.Text) < 10 {
		return
	}
	h := langhint.Detect(d.Text)
	d.Script = h.Script
	d.Lang = h.Lang
}

var paraSep = regexp.MustCompile(`\n[ \t\r]*\n\s*`)

// segmentParagraphs splits the normalized text on blank lines. Segment
// offsets address the normalized text, not the original
func segmentParagraphs(d *Document) {
	d.Segments = d.Segments[:0]
	text := d.Text
	start := 0
	push := func(end int) {
		seg := strings.TrimSpace(text[start:end])
		if seg == "" {
			return
		}
		// Advance start past the leading whitespace trimmed above
		s := start + strings.Index(text[start:end], seg)
		d.Segments = append(d.Segments, Segment{
			Index: len(d.Segments),
			Start: s,
			End:   s + len(seg),
			Text:  seg,
		})
	}
	for _, loc := range paraSep.FindAllStringIndex(text, -1) {
		push(loc[0])
		start = loc[1]
	}
	push(len(text))
}

// ocrConfusables maps characters OCR engines habitually emit for their
// ASCII siblings. Substitution is rune-for-rune so offsets stay anchored
var ocrConfusables = map[rune]string{
	'‘': "'", '’': "'",
	'“': `"`, '”': `"`,
	'–': "-", '—': "-",
	'´': "'", '`': "'",
	'ﬁ': "fi", 'ﬂ': "fl",
	'¦': "|",
	'，': ",", '．': ".", '：': ":", '；': ";",
}

func ocrCleanup(d *Document) {
	text := d.Text

	changed := false
	for _, r := range text {
		if _, ok := ocrConfusables[r]; ok {
			changed = true
			break
		}
	}
	if !changed {
		return
	}

	var b strings.Builder
	b.Grow(len(text))
	newMap := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		rep, ok := ocrConfusables[r]
		if !ok {
			for k := 0; k < size; k++ {
				newMap = append(newMap, d.posmap[i+k])
			}
			b.WriteString(text[i : i+size])
		} else {
			// Replacement bytes all anchor to the original rune start
			for k := 0; k < len(rep); k++ {
				newMap = append(newMap, d.posmap[i])
			}
			b.WriteString(rep)
		}
		i += size
	}
	newMap = append(newMap, d.posmap[len(text)])
	d.rewrite(b.String(), newMap)
}

// boilerplate lines are blanked in place with spaces so the offset map
// needs no adjustment
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^[ \t]*page \d+( of \d+)?[ \t]*$`),
	regexp.MustCompile(`(?im)^[ \t]*(confidential|do not distribute|internal use only)[ \t]*$`),
	regexp.MustCompile(`(?m)^[-_=]{4,}[ \t]*$`),
}

func stripBoilerplate(d *Document) {
	buf := []byte(d.Text)
	hit := false
	for _, re := range boilerplatePatterns {
		for _, loc := range re.FindAllIndex(buf, -1) {
			for i := loc[0]; i < loc[1]; i++ {
				if buf[i] != '\n' {
					buf[i] = ' '
				}
			}
			hit = true
		}
	}
	if hit {
		d.Text = string(buf)
	}
}

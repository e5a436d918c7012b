// Package textnorm prepares raw text for scanning: control stripping,
// whitespace collapsing, Unicode normalization, language hinting, and
// paragraph segmentation. Every transform maintains a byte-offset map
// back to the original text so spans found in normalized text can be
// anchored to the source document
package textnorm

// Segment is a paragraph-level slice of the normalized text
type Segment struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Document is the result of a normalization run. Text is what detectors
// scan; offsets into it translate back to OriginalText via MapRange
type Document struct {
	OriginalText string
	Text         string

	// Script and Lang are best-effort hints from the detect_language step
	Script string
	Lang   string

	Segments []Segment
	Steps    []string
	Warnings []string

	// Approximate is set when a transform changed text length in a way
	// that could not be tracked exactly, so mapped offsets are estimates
	Approximate bool

	// posmap[i] is the original byte offset for the byte at Text[i];
	// posmap[len(Text)] anchors the end. -1 marks an untrackable byte
	posmap []int
}

func newDocument(text string) *Document {
	pm := make([]int, len(text)+1)
	for i := range pm {
		pm[i] = i
	}
	return &Document{OriginalText: text, Text: text, posmap: pm}
}

// MapPos maps a byte offset in normalized text to the original text.
// Returns -1 when the offset is out of range or untrackable
func (d *Document) MapPos(p int) int {
	if p < 0 || p >= len(d.posmap) {
		return -1
	}
	return d.posmap[p]
}

// MapRange maps a half-open [start,end) span in normalized text back to
// the original text. Unmappable spans come back as (-1, -1)
func (d *Document) MapRange(start, end int) (int, int) {
	if start < 0 || end < start || end >= len(d.posmap) {
		return -1, -1
	}
	os, oe := d.posmap[start], d.posmap[end]
	if os < 0 || oe < 0 || oe < os {
		return -1, -1
	}
	return os, oe
}

func (d *Document) warnf(step, msg string) {
	d.Warnings = append(d.Warnings, step+": "+msg)
}

// rewrite replaces the document text and position map in one shot.
// newMap must have length len(newText)+1
func (d *Document) rewrite(newText string, newMap []int) {
	d.Text = newText
	d.posmap = newMap
}

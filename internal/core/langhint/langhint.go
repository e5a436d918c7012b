// Package langhint provides coarse script and language hints for scanned text.
package langhint

import "unicode"

// Hint is a best-effort classification of a text sample. Script is set
// whenever the sample contains letters; Lang only when the script ->
// language mapping is low-ambiguity
type Hint struct {
	Script string
	Lang   string
}

// minLetters gates language emission; below this the sample is too short
// for the hint to mean anything
const minLetters = 20

// maxSample caps how much of the input is inspected
const maxSample = 4000

// Detect classifies the predominant script of s and, where unambiguous,
// a BCP-47 language code. Only the first few KB are inspected
func Detect(s string) Hint {
	if len(s) > maxSample {
		// Back up to a rune boundary
		cut := maxSample
		for cut > 0 && (s[cut]&0xC0) == 0x80 {
			cut--
		}
		s = s[:cut]
	}

	var (
		latin, cyrillic, greek, han, hira, kata, hangul int
		arabic, hebrew, thai, devanagari                int
		total                                           int
	)

	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		total++

		switch {
		case unicode.In(r, unicode.Hangul):
			hangul++
		case unicode.In(r, unicode.Hiragana):
			hira++
		case unicode.In(r, unicode.Katakana):
			kata++
		case unicode.In(r, unicode.Han):
			han++
		case unicode.In(r, unicode.Arabic):
			arabic++
		case unicode.In(r, unicode.Hebrew):
			hebrew++
		case unicode.In(r, unicode.Thai):
			thai++
		case unicode.In(r, unicode.Greek):
			greek++
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		case unicode.In(r, unicode.Devanagari):
			devanagari++
		default:
			if unicode.In(r, unicode.Latin) {
				latin++
			}
		}
	}

	type sc struct {
		name string
		cnt  int
	}
	// Tie-break prefers specific scripts over Latin
	cands := []sc{
		{"Hiragana", hira},
		{"Katakana", kata},
		{"Hangul", hangul},
		{"Han", han},
		{"Arabic", arabic},
		{"Hebrew", hebrew},
		{"Thai", thai},
		{"Greek", greek},
		{"Cyrillic", cyrillic},
		{"Devanagari", devanagari},
		{"Latin", latin},
	}
	var best sc
	for _, c := range cands {
		if c.cnt > best.cnt {
			best = c
		}
	}

	var h Hint
	if best.cnt > 0 {
		h.Script = best.name
	}
	if total < minLetters {
		return h
	}

	switch {
	// Japanese: any kana is decisive
	case hira > 0 || kata > 0:
		h.Lang = "ja"
	case hangul > 0:
		h.Lang = "ko"
	case arabic > 0:
		h.Lang = "ar"
	case hebrew > 0:
		h.Lang = "he"
	case thai > 0:
		h.Lang = "th"
	case greek > 0:
		h.Lang = "el"
	// Han (zh/ja), Cyrillic (ru/uk/bg/...), Devanagari (hi/mr/...) and
	// Latin are too ambiguous without real language models; leave unset
	default:
	}

	return h
}

package redact

import (
	"strings"

	"scrubber/internal/core/pii"
)

// partialMask keeps just enough of a value to stay recognizable. Each
// type has its own convention; the default shows first and last runes
func partialMask(typ pii.EntityType, text string, mask rune) string {
	switch typ {
	case pii.TypeCreditCard, pii.TypePAN, pii.TypePhone:
		return maskDigitsExceptLast(text, 4, mask)
	case pii.TypeSSN:
		return maskSSN(text)
	case pii.TypeEmail:
		return maskEmail(text, mask)
	case pii.TypePerson:
		return maskInitials(text, mask)
	default:
		return maskEdges(text, mask)
	}
}

// maskDigitsExceptLast masks every digit but the trailing keep,
// preserving separators and layout
func maskDigitsExceptLast(text string, keep int, mask rune) string {
	total := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			total++
		}
	}
	var b strings.Builder
	seen := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= total-keep {
				b.WriteRune(mask)
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// maskSSN follows the conventional XXX-XX-NNNN presentation
func maskSSN(text string) string {
	digits := make([]rune, 0, 9)
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	last4 := ""
	if len(digits) >= 4 {
		last4 = string(digits[len(digits)-4:])
	}
	if strings.Contains(text, "-") {
		return "XXX-XX-" + last4
	}
	return "XXXXX" + last4
}

func maskEmail(text string, mask rune) string {
	at := strings.IndexByte(text, '@')
	if at <= 0 {
		return maskEdges(text, mask)
	}
	local := []rune(text[:at])
	return string(local[0]) + strings.Repeat(string(mask), len(local)-1) + text[at:]
}

// maskInitials keeps the first rune of each name token
func maskInitials(text string, mask rune) string {
	parts := strings.Fields(text)
	for i, p := range parts {
		runes := []rune(p)
		if len(runes) > 1 {
			parts[i] = string(runes[0]) + strings.Repeat(string(mask), len(runes)-1)
		}
	}
	return strings.Join(parts, " ")
}

func maskEdges(text string, mask rune) string {
	runes := []rune(text)
	if len(runes) <= 2 {
		return strings.Repeat(string(mask), len(runes))
	}
	return string(runes[0]) + strings.Repeat(string(mask), len(runes)-2) + string(runes[len(runes)-1])
}

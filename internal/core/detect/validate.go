package detect

import (
	"net"
	"strings"
	"time"

	"scrubber/internal/core/pii"
	pstrings "scrubber/internal/platform/strings"
)

// Luhn reports whether a digit string passes the Luhn checksum. Non-digit
// characters must already be stripped by the caller
func Luhn(digits string) bool {
	if len(digits) < 2 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func validateLuhn(match string) pii.CheckResult {
	digits := pstrings.Digits(match)
	if len(digits) < 13 || len(digits) > 19 {
		return pii.CheckFail
	}
	if Luhn(digits) {
		return pii.CheckPass
	}
	return pii.CheckFail
}

// validateSSN rejects the ranges the SSA never issues: area 000, 666, or
// 900+, group 00, and serial 0000
func validateSSN(match string) pii.CheckResult {
	digits := pstrings.Digits(match)
	if len(digits) != 9 {
		return pii.CheckFail
	}
	area, group, serial := digits[:3], digits[3:5], digits[5:]
	if area == "000" || area == "666" || area[0] == '9' {
		return pii.CheckFail
	}
	if group == "00" {
		return pii.CheckFail
	}
	if serial == "0000" {
		return pii.CheckFail
	}
	return pii.CheckPass
}

// testDomains are placeholder domains that never identify a real person
var testDomains = map[string]bool{
	"example.com": true,
	"test.com":    true,
	"domain.com":  true,
}

func validateEmail(match string) pii.CheckResult {
	at := strings.LastIndexByte(match, '@')
	if at <= 0 || at == len(match)-1 {
		return pii.CheckFail
	}
	domain := strings.ToLower(match[at+1:])
	if testDomains[domain] {
		return pii.CheckFail
	}
	if !strings.Contains(domain, ".") {
		return pii.CheckFail
	}
	return pii.CheckPass
}

func validateIP(match string) pii.CheckResult {
	if net.ParseIP(match) != nil {
		return pii.CheckPass
	}
	return pii.CheckFail
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006", "1/2/06",
	"1-2-2006", "1-2-06",
	"1.2.2006", "1.2.06",
	"2/1/2006", "2-1-2006", "2.1.2006",
	"2006/1/2",
}

func validateDate(match string) pii.CheckResult {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, match); err == nil {
			y := t.Year()
			if y >= 1900 && y <= 2100 {
				return pii.CheckPass
			}
		}
	}
	return pii.CheckFail
}

// digitCount is a cheap phone-number plausibility check
func digitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

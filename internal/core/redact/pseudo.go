package redact

import (
	"fmt"
	"hash/fnv"
	"strings"

	"scrubber/internal/core/pii"
)

var pseudoFirstNames = []string{"John", "Jane", "Alex", "Sam", "Taylor", "Morgan", "Jordan", "Casey"}

var pseudoLastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Miller", "Davis"}

// pseudonym builds a realistic-looking stand-in for the value. The
// replacement is derived from a hash of the original so the same input
// always maps to the same pseudonym within and across runs
func pseudonym(typ pii.EntityType, text string) string {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	switch typ {
	case pii.TypePerson:
		first := pseudoFirstNames[seed%uint64(len(pseudoFirstNames))]
		last := pseudoLastNames[(seed/7)%uint64(len(pseudoLastNames))]
		return first + " " + last
	case pii.TypeEmail:
		return fmt.Sprintf("user%08x@example.com", uint32(seed))
	case pii.TypePhone:
		return fmt.Sprintf("(555) 000-%04d", seed%10000)
	case pii.TypeAddress:
		return fmt.Sprintf("%d Main Street, Anytown, USA", 100+seed%900)
	default:
		return generalize(typ)
	}
}

// generalize swaps the value for a category placeholder
func generalize(typ pii.EntityType) string {
	switch typ {
	case pii.TypePerson:
		return "[PERSON]"
	case pii.TypeEmail:
		return "[EMAIL]"
	case pii.TypePhone:
		return "[PHONE NUMBER]"
	case pii.TypeAddress:
		return "[ADDRESS]"
	case pii.TypeCreditCard, pii.TypePAN:
		return "[PAYMENT CARD]"
	case pii.TypeSSN:
		return "[SSN]"
	case pii.TypePassport:
		return "[PASSPORT]"
	case pii.TypeDriversLicense:
		return "[DRIVER'S LICENSE]"
	case pii.TypeDateOfBirth:
		return "[DOB]"
	case pii.TypeBankAccount:
		return "[BANK ACCOUNT]"
	default:
		return "[" + strings.ToUpper(strings.ReplaceAll(string(typ), "_", " ")) + "]"
	}
}

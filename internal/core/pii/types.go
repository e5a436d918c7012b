// Package pii defines the shared data model for detection and redaction:
// entity types, candidates, risk levels, and validation outcomes
package pii

// EntityType tags the kind of personal data a span contains.
// Values are stable string identifiers suitable for serialization
type EntityType string

// Known entity types. Detectors may emit TypeCustom for anything outside
// the closed set; the pipeline treats it like any other type
const (
	TypeEmail          EntityType = "email"
	TypePhone          EntityType = "phone"
	TypeSSN            EntityType = "ssn"
	TypePAN            EntityType = "pan"
	TypeCreditCard     EntityType = "credit_card"
	TypePerson         EntityType = "person"
	TypeOrganization   EntityType = "organization"
	TypeLocation       EntityType = "location"
	TypeDate           EntityType = "date"
	TypeDateOfBirth    EntityType = "date_of_birth"
	TypeAddress        EntityType = "address"
	TypeIBAN           EntityType = "iban"
	TypeBankAccount    EntityType = "bank_account"
	TypeSwiftCode      EntityType = "swift_code"
	TypeCryptoAddress  EntityType = "crypto_address"
	TypeIPAddress      EntityType = "ip_address"
	TypeURL            EntityType = "url"
	TypePassport       EntityType = "passport"
	TypeDriversLicense EntityType = "drivers_license"
	TypeMedicalRecord  EntityType = "medical_record"
	TypeInsuranceID    EntityType = "insurance_id"
	TypePatientID      EntityType = "patient_id"
	TypeTaxID          EntityType = "tax_id"
	TypeCVV            EntityType = "cvv"
	TypeCustom         EntityType = "custom"
)

// Types returns every known entity type
func Types() []EntityType {
	return []EntityType{
		TypeEmail, TypePhone, TypeSSN, TypePAN, TypeCreditCard,
		TypePerson, TypeOrganization, TypeLocation, TypeDate, TypeDateOfBirth,
		TypeAddress, TypeIBAN, TypeBankAccount, TypeSwiftCode, TypeCryptoAddress,
		TypeIPAddress, TypeURL, TypePassport, TypeDriversLicense,
		TypeMedicalRecord, TypeInsuranceID, TypePatientID,
		TypeTaxID, TypeCVV, TypeCustom,
	}
}

// RiskLevel is an ordered severity classification of a PII type
type RiskLevel string

// Risk levels, lowest to highest
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// Downgrade lowers a risk level by n steps, flooring at RiskLow
func (r RiskLevel) Downgrade(n int) RiskLevel {
	i, ok := riskOrder[r]
	if !ok {
		return RiskMedium
	}
	i -= n
	if i < 0 {
		i = 0
	}
	for lvl, ord := range riskOrder {
		if ord == i {
			return lvl
		}
	}
	return RiskLow
}

// CheckResult is the tri-state outcome of a structural validation check
type CheckResult string

// Validation outcomes. CheckUnknown means no check applies to the type;
// it never adjusts confidence
const (
	CheckPass    CheckResult = "pass"
	CheckFail    CheckResult = "fail"
	CheckUnknown CheckResult = "unknown"
)

// BoundingBox anchors an entity on a rendered page, for page-anchored sources
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

package detect

import (
	"context"
	"testing"

	"scrubber/internal/core/pii"
)

func detectTypes(t *testing.T, d Detector, text string) map[pii.EntityType]pii.Candidate {
	t.Helper()
	cands, err := d.Detect(context.Background(), text)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	out := map[pii.EntityType]pii.Candidate{}
	for _, c := range cands {
		out[c.Type] = c
	}
	return out
}

func TestRuleDetector_Coverage(t *testing.T) {
	d := NewRuleDetector()

	tests := []struct {
		name string
		text string
		typ  pii.EntityType
		want string
	}{
		{name: "email", text: "mail me at jane@corp.example.org now", typ: pii.TypeEmail, want: "jane@corp.example.org"},
		{name: "phone parens", text: "call (555) 123-4567 today", typ: pii.TypePhone, want: "(555) 123-4567"},
		{name: "phone intl", text: "call +1 555 123 4567 today", typ: pii.TypePhone, want: "+1 555 123 4567"},
		{name: "ssn spaced", text: "ssn 123 45 6789 here", typ: pii.TypeSSN, want: "123 45 6789"},
		{name: "card with dashes", text: "pay 4532-0151-1283-0366 now", typ: pii.TypeCreditCard, want: "4532-0151-1283-0366"},
		{name: "pan", text: "pan ABCPD1234E filed", typ: pii.TypePAN, want: "ABCPD1234E"},
		{name: "ipv4", text: "from 192.168.10.20 port 22", typ: pii.TypeIPAddress, want: "192.168.10.20"},
		{name: "url", text: "see https://corp.example.org/a?b=1 please", typ: pii.TypeURL, want: "https://corp.example.org/a?b=1"},
		{name: "street address", text: "ship to 123 Main Street please", typ: pii.TypeAddress, want: "123 Main Street"},
		{name: "gps", text: "at 37.7749, -122.4194 now", typ: pii.TypeLocation, want: "37.7749, -122.4194"},
		{name: "iso date", text: "on 2023-07-14 we met", typ: pii.TypeDate, want: "2023-07-14"},
		{name: "dob", text: "DOB: 04/12/1987 on record", typ: pii.TypeDateOfBirth, want: "DOB: 04/12/1987"},
		{name: "bank account", text: "account #: 12345678 listed", typ: pii.TypeBankAccount, want: "account #: 12345678"},
		{name: "passport", text: "passport no: X1234567 scanned", typ: pii.TypePassport, want: "passport no: X1234567"},
		{name: "person", text: "ask Maria Garcia about it", typ: pii.TypePerson, want: "Maria Garcia"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := detectTypes(t, d, tc.text)
			c, ok := got[tc.typ]
			if !ok {
				t.Fatalf("no %s in %v", tc.typ, got)
			}
			if c.Text != tc.want {
				t.Fatalf("text = %q, want %q", c.Text, tc.want)
			}
			if tc.text[c.Start:c.End] != c.Text {
				t.Fatalf("offsets [%d,%d) do not address %q", c.Start, c.End, c.Text)
			}
		})
	}
}

func TestRuleDetector_IntraOverlap(t *testing.T) {
	// The visa pattern and the generic digit-run pattern both match;
	// only the stronger finding survives
	cands, err := NewRuleDetector().Detect(context.Background(), "card 4532015112830366 ok")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(cands), cands)
	}
	if cands[0].Confidence < 0.9 {
		t.Fatalf("kept the weaker match: %+v", cands[0])
	}
}

func TestRuleDetector_StopwordPairs(t *testing.T) {
	cands, err := NewRuleDetector().Detect(context.Background(), "Contact John Smith soon")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(cands) != 1 || cands[0].Text != "John Smith" {
		t.Fatalf("got %+v, want just John Smith", cands)
	}
}

func TestFinancialDetector(t *testing.T) {
	d := NewFinancialDetector()

	got := detectTypes(t, d, "wire to GB82WEST12345698765432 via swift: DEUTDEFF500 ref")
	if _, ok := got[pii.TypeIBAN]; !ok {
		t.Fatalf("no iban in %v", got)
	}
	if _, ok := got[pii.TypeSwiftCode]; !ok {
		t.Fatalf("no swift in %v", got)
	}

	got = detectTypes(t, d, "eth wallet 0x52908400098527886E0F7030069857D2E4169EE7 seen")
	if c, ok := got[pii.TypeCryptoAddress]; !ok || c.Confidence < 0.9 {
		t.Fatalf("crypto = %v", got)
	}

	got = detectTypes(t, d, "routing # 021000021 on the check")
	if _, ok := got[pii.TypeBankAccount]; !ok {
		t.Fatalf("no routing number in %v", got)
	}

	got = detectTypes(t, d, "company EIN: 12-3456789, card cvv: 123")
	if _, ok := got[pii.TypeTaxID]; !ok {
		t.Fatalf("no tax id in %v", got)
	}
	if _, ok := got[pii.TypeCVV]; !ok {
		t.Fatalf("no cvv in %v", got)
	}
}

func TestHealthcareDetector(t *testing.T) {
	d := NewHealthcareDetector()

	got := detectTypes(t, d, "MRN: A12345678 with member id X99-4412 for patient id 778812")
	for _, typ := range []pii.EntityType{pii.TypeMedicalRecord, pii.TypeInsuranceID, pii.TypePatientID} {
		if _, ok := got[typ]; !ok {
			t.Fatalf("missing %s in %v", typ, got)
		}
	}

	// No keyword anchor, no finding
	cands, err := d.Detect(context.Background(), "ref A12345678 in the ledger")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("unanchored match leaked: %+v", cands)
	}
}

func TestCustomDetector(t *testing.T) {
	d := NewCustomDetector()

	if err := d.AddPattern("emp", `\bEMP-\d{5}\b`, "", 0.9); err != nil {
		t.Fatalf("add: %v", err)
	}
	got := detectTypes(t, d, "badge EMP-00412 issued")
	if c, ok := got[pii.TypeCustom]; !ok || c.Text != "EMP-00412" {
		t.Fatalf("got %v", got)
	}

	if err := d.AddPattern("bad", `(`, "", 0.5); err == nil {
		t.Fatal("expected compile error")
	}
	if err := d.AddPattern("emp", `x`, "", 1.5); err == nil {
		t.Fatal("expected confidence range error")
	}
	if err := d.AddPattern("", `x`, "", 0.5); err == nil {
		t.Fatal("expected name error")
	}

	if !d.RemovePattern("emp") {
		t.Fatal("remove reported false")
	}
	cands, err := d.Detect(context.Background(), "badge EMP-00412 issued")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(cands) != 0 {
		t.Fatalf("removed pattern still firing: %+v", cands)
	}
}

package person

import (
	"net/url"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func TestFilterQuery(t *testing.T) {
	f := Filter{
		FirstName:    "Ada",
		BirthDateMin: NewDate(1980, time.January, 1),
		IncomeMax:    floatPtr(50000),
		BalanceMin:   floatPtr(0),
	}
	q := f.Query()

	want := url.Values{
		"firstName":    {"Ada"},
		"birthDateMin": {"1980-01-01"},
		"incomeMax":    {"50000"},
		"balanceMin":   {"0"},
	}
	if got := q.Encode(); got != want.Encode() {
		t.Errorf("Query = %q, want %q", got, want.Encode())
	}

	// Unconstrained dimensions never appear
	for _, key := range []string{"lastName", "birthDateMax", "incomeMin", "balanceMax"} {
		if q.Has(key) {
			t.Errorf("unconstrained %q should be omitted", key)
		}
	}
}

func TestFilterFingerprint(t *testing.T) {
	if got := (Filter{}).Fingerprint(); got != "all" {
		t.Errorf("empty filter fingerprint = %q, want %q", got, "all")
	}

	a := Filter{FirstName: "Ada", IncomeMin: floatPtr(100)}
	b := Filter{IncomeMin: floatPtr(100), FirstName: "Ada"}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("equal criteria must produce equal fingerprints")
	}

	c := Filter{FirstName: "Grace"}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different criteria must produce different fingerprints")
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !(Filter{}).IsEmpty() {
		t.Error("zero filter should be empty")
	}
	if (Filter{LastName: "Lovelace"}).IsEmpty() {
		t.Error("filter with a name constraint is not empty")
	}
	if (Filter{BalanceMax: floatPtr(0)}).IsEmpty() {
		t.Error("a bound of zero is still a constraint")
	}
}

func TestParseFilter(t *testing.T) {
	form := url.Values{
		"firstName":    {"  Ada  "},
		"lastName":     {""},
		"birthDateMin": {"1980-01-01"},
		"birthDateMax": {"nonsense"},
		"incomeMin":    {"1234.5"},
		"incomeMax":    {"not a number"},
		"balanceMin":   {""},
	}
	f := ParseFilter(form)

	if f.FirstName != "Ada" {
		t.Errorf("FirstName = %q, want trimmed %q", f.FirstName, "Ada")
	}
	if f.LastName != "" {
		t.Errorf("LastName = %q, want unconstrained", f.LastName)
	}
	if f.BirthDateMin.String() != "1980-01-01" {
		t.Errorf("BirthDateMin = %q", f.BirthDateMin)
	}
	if !f.BirthDateMax.IsZero() {
		t.Error("unparseable date must degrade to unconstrained")
	}
	if f.IncomeMin == nil || *f.IncomeMin != 1234.5 {
		t.Errorf("IncomeMin = %v, want 1234.5", f.IncomeMin)
	}
	if f.IncomeMax != nil {
		t.Error("unparseable number must degrade to unconstrained")
	}
	if f.BalanceMin != nil || f.BalanceMax != nil {
		t.Error("absent bounds must stay unconstrained")
	}
}

func TestParseFilterFullReplace(t *testing.T) {
	// An all-empty form yields the empty filter: submissions replace
	// criteria wholesale, they never merge with previous state.
	f := ParseFilter(url.Values{"firstName": {""}, "incomeMin": {""}})
	if !f.IsEmpty() {
		t.Errorf("empty form should clear every dimension, got %+v", f)
	}
}

func TestParsePerson(t *testing.T) {
	form := url.Values{
		"personId":  {"9"},
		"firstName": {"Ada"},
		"lastName":  {"Lovelace"},
		"birthDate": {"1815-12-10"},
		"income":    {"120.50"},
		"balance":   {""},
	}
	p := ParsePerson(form)

	if p.PersonID != 9 {
		t.Errorf("PersonID = %d, want 9", p.PersonID)
	}
	if p.BirthDate.String() != "1815-12-10" {
		t.Errorf("BirthDate = %q", p.BirthDate)
	}
	if p.Income != 120.50 {
		t.Errorf("Income = %v, want 120.50", p.Income)
	}
	if p.Balance != 0 {
		t.Errorf("empty balance should coerce to zero, got %v", p.Balance)
	}

	// No personId field means pending creation
	draft := ParsePerson(url.Values{"firstName": {"Ada"}})
	if !draft.IsNew() {
		t.Error("missing personId should yield a new person")
	}
}

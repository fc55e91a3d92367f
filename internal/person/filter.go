package person

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter holds the listing query criteria. Every field is optional:
// an empty string or nil pointer (or zero Date) means "no constraint on
// that dimension", never "unchanged". Applying a Filter is always a full
// replacement of the active criteria.
type Filter struct {
	FirstName    string
	LastName     string
	BirthDateMin Date
	BirthDateMax Date
	IncomeMin    *float64
	IncomeMax    *float64
	BalanceMin   *float64
	BalanceMax   *float64
}

// IsEmpty reports whether no dimension is constrained.
func (f Filter) IsEmpty() bool {
	return f.FirstName == "" && f.LastName == "" &&
		f.BirthDateMin.IsZero() && f.BirthDateMax.IsZero() &&
		f.IncomeMin == nil && f.IncomeMax == nil &&
		f.BalanceMin == nil && f.BalanceMax == nil
}

// Query produces the backend query parameters for the listing request.
// Unconstrained dimensions are omitted entirely.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.FirstName != "" {
		q.Set("firstName", f.FirstName)
	}
	if f.LastName != "" {
		q.Set("lastName", f.LastName)
	}
	if !f.BirthDateMin.IsZero() {
		q.Set("birthDateMin", f.BirthDateMin.String())
	}
	if !f.BirthDateMax.IsZero() {
		q.Set("birthDateMax", f.BirthDateMax.String())
	}
	setFloat(q, "incomeMin", f.IncomeMin)
	setFloat(q, "incomeMax", f.IncomeMax)
	setFloat(q, "balanceMin", f.BalanceMin)
	setFloat(q, "balanceMax", f.BalanceMax)
	return q
}

// Fingerprint returns a canonical key for this criteria set, suitable for
// keying the record query cache. url.Values.Encode sorts by key, so equal
// criteria always produce equal fingerprints.
func (f Filter) Fingerprint() string {
	enc := f.Query().Encode()
	if enc == "" {
		return "all"
	}
	return enc
}

func setFloat(q url.Values, key string, v *float64) {
	if v != nil {
		q.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

// ParseFilter coerces form input into a Filter. Coercion is deliberately
// lenient: empty strings mean unconstrained, and values that fail numeric
// or date parsing degrade to unconstrained rather than erroring; the edit
// buffer is validated by type coercion only.
func ParseFilter(form url.Values) Filter {
	f := Filter{
		FirstName: strings.TrimSpace(form.Get("firstName")),
		LastName:  strings.TrimSpace(form.Get("lastName")),
	}
	if d, err := ParseDate(form.Get("birthDateMin")); err == nil {
		f.BirthDateMin = d
	}
	if d, err := ParseDate(form.Get("birthDateMax")); err == nil {
		f.BirthDateMax = d
	}
	f.IncomeMin = parseFloat(form.Get("incomeMin"))
	f.IncomeMax = parseFloat(form.Get("incomeMax"))
	f.BalanceMin = parseFloat(form.Get("balanceMin"))
	f.BalanceMax = parseFloat(form.Get("balanceMax"))
	return f
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePerson coerces form input into a Person draft. The personId field is
// optional; absence yields a pending creation. Numeric fields follow the
// same empty-string-to-zero coercion the original form applied.
func ParsePerson(form url.Values) Person {
	p := Person{
		FirstName: form.Get("firstName"),
		LastName:  form.Get("lastName"),
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(form.Get("personId")), 10, 64); err == nil {
		p.PersonID = id
	}
	if d, err := ParseDate(form.Get("birthDate")); err == nil {
		p.BirthDate = d
	}
	if v := parseFloat(form.Get("income")); v != nil {
		p.Income = *v
	}
	if v := parseFloat(form.Get("balance")); v != nil {
		p.Balance = *v
	}
	return p
}

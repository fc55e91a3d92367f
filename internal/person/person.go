// Package person defines the Person domain model and the filter criteria
// used to query the persons backend. This package has no transport or UI
// dependencies.
package person

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Person is a single record managed by the admin UI.
//
// PersonID zero means "new, unsaved": the backend is the sole authority
// for identity assignment, so a Person without an ID is a pending creation
// and one with an ID is a persisted entity.
type Person struct {
	PersonID  int64   `json:"personId,omitempty"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	BirthDate Date    `json:"birthDate"`
	Income    float64 `json:"income"`
	Balance   float64 `json:"balance"`
}

// IsNew reports whether the person has not been persisted yet.
func (p Person) IsNew() bool {
	return p.PersonID == 0
}

// DisplayName returns the name shown in notifications and confirmations.
func (p Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Normalize trims the name fields ahead of persistence.
func (p Person) Normalize() Person {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	return p
}

// dateLayout is the wire format for birth dates and date filter bounds.
const dateLayout = "2006-01-02"

// Date is a civil date (no time component). The zero value means unset.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02". An RFC 3339 timestamp is also accepted;
// its time part is truncated. Empty input yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t: t.UTC().Truncate(24 * time.Hour)}, nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats the date as "2006-01-02", or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// Time returns the underlying UTC midnight instant.
func (d Date) Time() time.Time {
	return d.t
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// MarshalJSON encodes the date as "2006-01-02". Unset dates encode as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02", a full RFC 3339 timestamp, or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

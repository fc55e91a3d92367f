package person

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain date", input: "1990-04-12", want: "1990-04-12"},
		{name: "rfc3339 timestamp truncates", input: "1990-04-12T15:04:05Z", want: "1990-04-12"},
		{name: "empty means unset", input: "", want: ""},
		{name: "whitespace means unset", input: "   ", want: ""},
		{name: "garbage", input: "not-a-date", wantErr: true},
		{name: "wrong order", input: "12-04-1990", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %q", tt.input, d.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if d.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, d.String(), tt.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(1985, time.November, 3)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"1985-11-03"` {
		t.Errorf("marshal = %s, want %q", b, `"1985-11-03"`)
	}

	var zero Date
	b, err = json.Marshal(zero)
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("marshal zero = %s, want null", b)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"1985-11-03"`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %s, want %s", back, d)
	}

	if err := json.Unmarshal([]byte("null"), &back); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !back.IsZero() {
		t.Errorf("null should yield the zero date, got %s", back)
	}
}

func TestPersonIsNew(t *testing.T) {
	if !(Person{}).IsNew() {
		t.Error("zero PersonID should be new")
	}
	if (Person{PersonID: 42}).IsNew() {
		t.Error("assigned PersonID should not be new")
	}
}

func TestPersonNormalize(t *testing.T) {
	p := Person{FirstName: "  Ada ", LastName: " Lovelace  "}
	n := p.Normalize()
	if n.FirstName != "Ada" || n.LastName != "Lovelace" {
		t.Errorf("Normalize = %q %q, want trimmed names", n.FirstName, n.LastName)
	}
	// Original is untouched
	if p.FirstName != "  Ada " {
		t.Error("Normalize should not mutate the receiver")
	}
}

func TestPersonDisplayName(t *testing.T) {
	tests := []struct {
		p    Person
		want string
	}{
		{Person{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{Person{FirstName: "Ada"}, "Ada"},
		{Person{LastName: "Lovelace"}, "Lovelace"},
		{Person{}, ""},
	}
	for _, tt := range tests {
		if got := tt.p.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestPersonJSONOmitsZeroID(t *testing.T) {
	b, err := json.Marshal(Person{FirstName: "Ada"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["personId"]; ok {
		t.Error("pending creation must not serialize a personId")
	}

	b, err = json.Marshal(Person{PersonID: 7, FirstName: "Ada"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["personId"] != float64(7) {
		t.Errorf("personId = %v, want 7", m["personId"])
	}
}

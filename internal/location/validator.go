package location

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"
)

// Validation messages, one per rule, reported in rule order.
const (
	msgNameRequired   = "Location name is required."
	msgMaleRequired   = "Number of male residents is required."
	msgFemaleRequired = "Number of female residents is required."
	msgMaleInteger    = "Number of male residents should be an integer."
	msgFemaleInteger  = "Number of female residents should be an integer."
)

// rule pairs a failure predicate with its message. Rules are independent:
// every failing rule contributes its message, in declaration order.
type rule struct {
	message string
	failed  func(p Payload) bool
}

var rules = []rule{
	{msgNameRequired, func(p Payload) bool { return nameEmpty(p.Name) }},
	{msgMaleRequired, func(p Payload) bool { return countEmpty(p.MaleResidents) }},
	{msgFemaleRequired, func(p Payload) bool { return countEmpty(p.FemaleResidents) }},
	{msgMaleInteger, func(p Payload) bool { return countNotInteger(p.MaleResidents) }},
	{msgFemaleInteger, func(p Payload) bool { return countNotInteger(p.FemaleResidents) }},
}

// Validate evaluates every rule against the payload and returns either the
// sanitized candidate or the ordered violation list. The name is trimmed and
// HTML-escaped regardless of whether other rules fail.
func Validate(p Payload) (Candidate, []string) {
	var violations []string
	for _, r := range rules {
		if r.failed(p) {
			violations = append(violations, r.message)
		}
	}

	if violations != nil {
		return Candidate{}, violations
	}

	male, _ := countValue(p.MaleResidents)
	female, _ := countValue(p.FemaleResidents)
	return Candidate{
		Name:            sanitizeName(p.Name),
		MaleResidents:   male,
		FemaleResidents: female,
	}, nil
}

func sanitizeName(raw json.RawMessage) string {
	var name string
	_ = json.Unmarshal(raw, &name)
	return html.EscapeString(strings.TrimSpace(name))
}

// nameEmpty - the name must be a JSON string with visible characters.
func nameEmpty(raw json.RawMessage) bool {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return true
	}
	return strings.TrimSpace(name) == ""
}

// countEmpty reports whether a resident count is missing: absent from the
// body, JSON null, or a blank string.
func countEmpty(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// countNotInteger rejects present values that are not non-negative integers
// (string-typed values included, even blank ones). Absent and null values
// are the required rules' concern, not this one's.
func countNotInteger(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}
	_, ok := countValue(raw)
	return !ok
}

func countValue(raw json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	value, err := strconv.Atoi(n.String())
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

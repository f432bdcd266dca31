// Package states normalizes US jurisdiction identifiers. Credential records
// store whatever the submitter typed ("CA" or "California"); lookups must
// treat the two forms as equivalent.
package states

import "strings"

// abbrToName is the fixed bidirectional lookup table, 50 states plus DC.
var abbrToName = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	"DC": "District of Columbia",
}

var nameToAbbr = func() map[string]string {
	m := make(map[string]string, len(abbrToName))
	for abbr, name := range abbrToName {
		m[strings.ToLower(name)] = abbr
	}
	return m
}()

// Name resolves a two-letter abbreviation to the full state name.
func Name(abbr string) (string, bool) {
	name, ok := abbrToName[strings.ToUpper(abbr)]
	return name, ok
}

// Abbr resolves a full state name (case-insensitive) to its abbreviation.
func Abbr(name string) (string, bool) {
	abbr, ok := nameToAbbr[strings.ToLower(strings.TrimSpace(name))]
	return abbr, ok
}

// Normalize resolves either form to the canonical abbreviation. Unknown input
// returns ok=false; callers decide whether to match it verbatim.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 2 {
		upper := strings.ToUpper(s)
		if _, ok := abbrToName[upper]; ok {
			return upper, true
		}
	}
	if abbr, ok := nameToAbbr[strings.ToLower(s)]; ok {
		return abbr, true
	}
	return "", false
}

// SearchTerms returns every stored spelling that should match the given
// jurisdiction: the abbreviation and the full name when recognized, or the
// input verbatim when not. Matching is case-insensitive on the caller's side.
func SearchTerms(s string) []string {
	if abbr, ok := Normalize(s); ok {
		name := abbrToName[abbr]
		return []string{abbr, name}
	}
	return []string{strings.TrimSpace(s)}
}

// Equivalent reports whether two jurisdiction strings refer to the same state,
// treating abbreviation and full name as interchangeable.
func Equivalent(a, b string) bool {
	na, okA := Normalize(a)
	nb, okB := Normalize(b)
	if okA && okB {
		return na == nb
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// DisplayName returns the full name for recognized jurisdictions, otherwise
// the input unchanged. Used for response payloads.
func DisplayName(s string) string {
	if abbr, ok := Normalize(s); ok {
		return abbrToName[abbr]
	}
	return strings.TrimSpace(s)
}

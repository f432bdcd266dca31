package states

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIsBijective(t *testing.T) {
	// 50 states plus DC.
	require.Len(t, abbrToName, 51)

	seen := make(map[string]string, len(abbrToName))
	for abbr, name := range abbrToName {
		assert.Len(t, abbr, 2)
		assert.Equal(t, strings.ToUpper(abbr), abbr)
		if prev, dup := seen[name]; dup {
			t.Fatalf("full name %q mapped from both %q and %q", name, prev, abbr)
		}
		seen[name] = abbr

		roundTrip, ok := Abbr(name)
		require.True(t, ok, "name %q did not resolve back", name)
		assert.Equal(t, abbr, roundTrip)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"abbreviation", "CA", "CA", true},
		{"lowercase abbreviation", "ca", "CA", true},
		{"full name", "California", "CA", true},
		{"full name lowercase", "california", "CA", true},
		{"full name with spaces", "  New Hampshire  ", "NH", true},
		{"district of columbia", "District of Columbia", "DC", true},
		{"unknown abbreviation", "ZZ", "", false},
		{"unknown name", "Atlantis", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchTerms(t *testing.T) {
	t.Run("recognized state returns both spellings", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"CA", "California"}, SearchTerms("ca"))
		assert.ElementsMatch(t, []string{"CA", "California"}, SearchTerms("California"))
	})

	t.Run("unknown input matches verbatim", func(t *testing.T) {
		assert.Equal(t, []string{"Puerto Rico"}, SearchTerms(" Puerto Rico "))
	})
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent("CA", "California"))
	assert.True(t, Equivalent("california", "CA"))
	assert.True(t, Equivalent("TX", "tx"))
	assert.False(t, Equivalent("CA", "Colorado"))

	// Unknown jurisdictions fall back to case-insensitive comparison.
	assert.True(t, Equivalent("Guam", "guam"))
	assert.False(t, Equivalent("Guam", "Samoa"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "California", DisplayName("CA"))
	assert.Equal(t, "California", DisplayName("california"))
	assert.Equal(t, "Guam", DisplayName(" Guam "))
}

package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Lisbon", "Lisbon"},
		{"trims and collapses", "  New \t York\n ", "New York"},
		{"strips tags", "<b>Porto</b><script>alert(1)</script>", "Porto"},
		{"keeps ampersand", "Trinidad & Tobago", "Trinidad & Tobago"},
		{"numeric coordinate", " 38.7223 ", "38.7223"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\x`, EscapeLike(`c:\x`))
	assert.Equal(t, "Berlin", EscapeLike("Berlin"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "united-kingdom", Slugify("United Kingdom"))
	assert.Equal(t, "côte-d-ivoire", Slugify("Côte d'Ivoire"))
	assert.Equal(t, "a-b", Slugify("  A -- B  "))
	assert.Equal(t, "", Slugify("!!!"))
}

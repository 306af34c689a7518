package place_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KKamx0/TREMM/internal/place"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Seattle, WA", "Seattle, WA"},
		{"Seattle,  WA", "Seattle, WA"},
		{"  Seattle ,WA  ", "Seattle, WA"},
		{"New   York,\tNY", "New York, NY"},
		{"san francisco", "san francisco"},
		{"Paris , Texas , US", "Paris, Texas, US"},
		{"New\u00a0\u00a0York", "New York"},
		{"Seattle,\u00a0WA", "Seattle, WA"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, place.Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := place.Normalize(" Austin ,   TX ")
	assert.Equal(t, once, place.Normalize(once))
}

func TestAppendCountryHint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Austin, TX", "Austin, TX, US"},
		{"Austin, tx", "Austin, TX, US"},
		{"Paris, France", "Paris, France"},
		{"Paris, FR", "Paris, FR, US"},
		{"Springfield", "Springfield"},
		{"Springfield, IL, US", "Springfield, IL, US"},
		{"Austin, T1", "Austin, T1"},
		{"Austin, , TX", "Austin, TX, US"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, place.AppendCountryHint(tc.input))
		})
	}
}

func TestCandidates(t *testing.T) {
	t.Run("country hint and US suffix collapse for a state abbreviation", func(t *testing.T) {
		got := place.Candidates("Seattle,  WA")
		assert.Equal(t, []string{"Seattle, WA", "Seattle, WA, US"}, got)
	})

	t.Run("non-breaking spaces are collapsed before the hint", func(t *testing.T) {
		got := place.Candidates("Seattle,\u00a0\u00a0WA")
		assert.Equal(t, []string{"Seattle, WA", "Seattle, WA, US"}, got)
	})

	t.Run("lowercase state keeps all three candidates", func(t *testing.T) {
		got := place.Candidates("austin, tx")
		assert.Equal(t, []string{"austin, tx", "austin, TX, US", "austin, tx, US"}, got)
	})

	t.Run("duplicates are removed", func(t *testing.T) {
		got := place.Candidates("London")
		assert.Equal(t, []string{"London", "London, US"}, got)
	})

	t.Run("order follows first occurrence", func(t *testing.T) {
		got := place.Candidates("Paris, France")
		assert.Equal(t, []string{"Paris, France", "Paris, France, US"}, got)
	})
}

func TestParts(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, place.Parts(" a ,, b ,"))
	assert.Empty(t, place.Parts(" , "))
}

// Package geocode turns a free-text place name into a single location,
// trying rewritten candidates and disambiguating between multiple hits.
package geocode

import (
	"context"
	"strings"
)

// MaxResults is the number of matches requested per candidate query.
const MaxResults = 5

// Match is a location returned by the geocoder. Two matches are the same
// place when their coordinates are exactly equal.
type Match struct {
	Name    string  `json:"name"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Label renders the match as "Name, State, Country", omitting an empty state.
func (m Match) Label() string {
	parts := make([]string, 0, 3)
	parts = append(parts, m.Name)
	if m.State != "" {
		parts = append(parts, m.State)
	}
	parts = append(parts, m.Country)
	return strings.Join(parts, ", ")
}

// Geocoder looks up a free-text query and returns at most limit matches in
// relevance order. An empty slice means nothing matched.
type Geocoder interface {
	Geocode(ctx context.Context, query string, limit int) ([]Match, error)
}

// Status is the outcome of resolving a place.
type Status string

const (
	StatusResolved  Status = "RESOLVED"
	StatusNotFound  Status = "NOT_FOUND"
	StatusAmbiguous Status = "AMBIGUOUS"
)

// Resolution is the result of Resolver.Resolve. Match is set when Status is
// StatusResolved; Message holds the user-facing text otherwise.
type Resolution struct {
	Status Status

	// Query is the normalized user input.
	Query string

	// Candidate is the rewritten query that produced results, if any.
	Candidate string

	Match Match

	// Options lists the choices offered when Status is StatusAmbiguous.
	Options []Match

	Message string
}

package geocode

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/place"
)

// maxOptions is how many matches are offered when a place is ambiguous.
const maxOptions = 3

var countryMention = regexp.MustCompile(`(?i)\b(united states|usa|us)\b`)

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	Geocoder Geocoder
	Logger   zerolog.Logger
}

// Resolver resolves free-text places to a single geocoder match.
type Resolver struct {
	geocoder Geocoder
	logger   zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		geocoder: cfg.Geocoder,
		logger:   cfg.Logger,
	}
}

// Resolve tries each candidate rewrite of input in order and stops at the
// first one the geocoder knows. Not-found and ambiguous inputs are reported
// through the Resolution; only geocoder failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Resolution, error) {
	normalized := place.Normalize(input)
	res := &Resolution{Query: normalized}

	var matches []Match
	for _, candidate := range place.Candidates(input) {
		r.logger.Debug().
			Str("query", normalized).
			Str("candidate", candidate).
			Msg("geocoding candidate")

		found, err := r.geocoder.Geocode(ctx, candidate, MaxResults)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			res.Candidate = candidate
			matches = Dedupe(found)
			break
		}
	}

	switch {
	case len(matches) == 0:
		res.Status = StatusNotFound
		res.Message = notFoundMessage(normalized)
	case len(matches) == 1:
		res.Status = StatusResolved
		res.Match = matches[0]
	case IsSpecific(normalized):
		res.Status = StatusResolved
		res.Match = PickBestMatch(normalized, matches)
	default:
		res.Status = StatusAmbiguous
		res.Options = matches[:min(maxOptions, len(matches))]
		res.Message = ambiguousMessage(normalized, res.Options)
	}

	r.logger.Debug().
		Str("query", normalized).
		Str("status", string(res.Status)).
		Int("matches", len(matches)).
		Msg("place resolved")

	return res, nil
}

// Dedupe drops matches whose coordinates equal an earlier match's.
func Dedupe(matches []Match) []Match {
	type coord struct{ lat, lon float64 }

	seen := make(map[coord]struct{}, len(matches))
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		key := coord{m.Lat, m.Lon}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
	}
	return out
}

// IsSpecific reports whether query carries enough context to pick among
// several matches without asking: a comma, or a mention of the United States.
func IsSpecific(query string) bool {
	return strings.Contains(query, ",") || countryMention.MatchString(query)
}

// PickBestMatch chooses among matches for query. In order: the second comma
// segment names a match's state; a short third segment names a match's
// country code; the query mentions a match's state anywhere; otherwise the
// geocoder's first match.
func PickBestMatch(query string, matches []Match) Match {
	segments := strings.Split(query, ",")
	for i := range segments {
		segments[i] = strings.ToLower(strings.TrimSpace(segments[i]))
	}

	if len(segments) > 1 && segments[1] != "" {
		for _, m := range matches {
			if m.State != "" && strings.ToLower(m.State) == segments[1] {
				return m
			}
		}
	}

	if len(segments) > 2 && segments[2] != "" && len(segments[2]) <= 3 {
		for _, m := range matches {
			if strings.ToLower(m.Country) == segments[2] {
				return m
			}
		}
	}

	lowered := strings.ToLower(query)
	for _, m := range matches {
		if m.State != "" && strings.Contains(lowered, strings.ToLower(m.State)) {
			return m
		}
	}

	return matches[0]
}

func notFoundMessage(query string) string {
	return fmt.Sprintf(
		"I couldn't find %q. Try a city with its state or country, like \"Austin, TX\", \"Paris, FR\" or \"Springfield, IL, US\".",
		query,
	)
}

func ambiguousMessage(query string, options []Match) string {
	lines := make([]string, 0, len(options))
	for i, m := range options {
		lines = append(lines, strconv.Itoa(i+1)+". "+m.Label())
	}

	return fmt.Sprintf(
		"I found more than one place called %q:\n%s\nAdd a state or country to narrow it down, e.g. \"%s, TX\" or \"%s, GB\".",
		query, strings.Join(lines, "\n"), query, query,
	)
}

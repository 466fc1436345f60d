// Package match runs the filter-then-verify pipeline over the two similarity
// engines: the q-gram admissibility filter prunes pairs that provably exceed
// the distance bound, and bounded Levenshtein verifies the survivors. The
// filter never produces false negatives, so verification sees every true
// match; its false positives are discarded here.
package match

import (
	"errors"
	"sort"

	"github.com/kittclouds/strsim/pkg/levenshtein"
	"github.com/kittclouds/strsim/pkg/qgram"
)

// ErrInvalidMaxDistance is returned for a negative distance bound.
var ErrInvalidMaxDistance = errors.New("match: max distance must be >= 0")

// Match is one verified choice within the distance bound.
type Match struct {
	Value    string
	Distance int
}

// Matcher finds choices within a fixed edit distance of a query string.
// Decompositions of repeated queries and choices are cached by the embedded
// q-gram engine, so a Matcher is worth reusing across calls.
type Matcher struct {
	engine      *qgram.Engine
	maxDistance int
}

// NewMatcher returns a Matcher for the given edit-distance bound. Options are
// forwarded to the q-gram engine (qgram.WithQSize, qgram.WithPadding, cache
// options).
func NewMatcher(maxDistance int, opts ...qgram.Option) (*Matcher, error) {
	if maxDistance < 0 {
		return nil, ErrInvalidMaxDistance
	}
	return &Matcher{
		engine:      qgram.New(opts...),
		maxDistance: maxDistance,
	}, nil
}

// Match returns every choice whose edit distance to query is at most the
// bound, sorted by distance and then by input order. Candidates that clear
// the q-gram filter but fail exact verification are dropped.
func (m *Matcher) Match(query string, choices []string) ([]Match, error) {
	var out []Match
	for _, choice := range choices {
		ok, err := m.engine.IsCandidate(query, choice, m.maxDistance)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		// Verify with a ceiling one above the bound: a capped result of
		// maxDistance+1 means "too far", anything lower is exact.
		d, err := levenshtein.DistanceWithMax(query, choice, m.maxDistance+1)
		if err != nil {
			return nil, err
		}
		if d > m.maxDistance {
			continue
		}
		out = append(out, Match{Value: choice, Distance: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out, nil
}

// Best returns the closest verified choice. The second return is false when
// no choice is within the bound.
func (m *Matcher) Best(query string, choices []string) (Match, bool, error) {
	matches, err := m.Match(query, choices)
	if err != nil {
		return Match{}, false, err
	}
	if len(matches) == 0 {
		return Match{}, false, nil
	}
	return matches[0], true, nil
}

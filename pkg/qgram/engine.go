// Package qgram measures approximate string similarity through q-gram
// frequency vectors: each string is decomposed into overlapping runs of q
// codepoints, and distance/similarity are computed over the resulting
// occurrence counts.
//
// The headline use is cheap candidate filtering before an exact edit-distance
// computation: IsCandidate rejects pairs whose Levenshtein distance provably
// exceeds a bound, without ever rejecting a pair within the bound.
//
// All operations are codepoint-wise. No Unicode normalization is applied;
// callers must pre-normalize if NFC/NFD variants of equivalent text can occur.
package qgram

import (
	"errors"
	"unicode/utf8"
)

// DefaultQSize is the gram width used when none is configured.
const DefaultQSize = 2

// Boundary sentinels for padded decomposition. Both are Unicode
// noncharacters, so they cannot occur in well-formed interchange text;
// callers feeding raw noncharacter codepoints will collide with them.
const (
	padStart = '\uFFFE'
	padEnd   = '\uFFFF'
)

var (
	ErrInvalidQSize       = errors.New("qgram: q-size must be >= 1")
	ErrInvalidThreshold   = errors.New("qgram: threshold must be >= 1")
	ErrInvalidMaxDistance = errors.New("qgram: max distance must be >= 0")
)

// Profile maps each q-gram to its occurrence count within one string.
type Profile map[string]int

// Engine decomposes strings and computes q-gram distance and similarity.
// Configuration is fixed at construction; decompositions are cached for the
// engine's lifetime. An Engine is safe for concurrent use.
type Engine struct {
	qSize  int
	padded bool
	cache  profileCache
}

type config struct {
	qSize     int
	padded    bool
	cacheSize int
	noCache   bool
}

// Option tunes an Engine at construction.
type Option func(*config)

// WithQSize sets the gram width. Values below 1 fall back to DefaultQSize.
func WithQSize(q int) Option {
	return func(c *config) {
		if q < 1 {
			q = DefaultQSize
		}
		c.qSize = q
	}
}

// WithPadding toggles boundary sentinels. Padding increases sensitivity to
// prefix and suffix differences and is on by default. It is never applied
// for q = 1, where it would be meaningless.
func WithPadding(padded bool) Option {
	return func(c *config) { c.padded = padded }
}

// WithCacheSize bounds the decomposition cache to the given number of
// entries, evicting least-recently-used decompositions. Sizes below 1 leave
// the default unbounded cache in place.
func WithCacheSize(size int) Option {
	return func(c *config) { c.cacheSize = size }
}

// WithoutCache disables decomposition caching entirely, for callers that
// decompose many distinct strings exactly once.
func WithoutCache() Option {
	return func(c *config) { c.noCache = true }
}

// New returns an Engine with q-size 2 and padding enabled unless overridden.
func New(opts ...Option) *Engine {
	cfg := config{qSize: DefaultQSize, padded: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var cache profileCache
	switch {
	case cfg.noCache:
		cache = nopCache{}
	case cfg.cacheSize >= 1:
		cache = newLRUCache(cfg.cacheSize)
	default:
		cache = newMapCache()
	}

	return &Engine{qSize: cfg.qSize, padded: cfg.padded, cache: cache}
}

// With returns a view of the engine with a per-call parameter override. The
// view shares the receiver's cache; entries are keyed by (q, padded), so
// differently parameterized views never collide.
func (e *Engine) With(q int, padded bool) (*Engine, error) {
	if q < 1 {
		return nil, ErrInvalidQSize
	}
	return &Engine{qSize: q, padded: padded, cache: e.cache}, nil
}

// QSize reports the configured gram width.
func (e *Engine) QSize() int { return e.qSize }

// Padded reports whether boundary sentinels are applied.
func (e *Engine) Padded() bool { return e.padded }

// PurgeCache drops all cached decompositions.
func (e *Engine) PurgeCache() { e.cache.purge() }

// Decompose returns the q-gram frequency map of s. The counts sum to
// n + q - 1 when padded, max(n - q + 1, 0) otherwise, with n the codepoint
// length of s.
func (e *Engine) Decompose(s string) Profile {
	p := e.profile(s)
	out := make(Profile, len(p))
	for g, c := range p {
		out[g] = c
	}
	return out
}

// profile returns the shared, read-only frequency map for s, computing and
// caching it on first use.
func (e *Engine) profile(s string) map[string]int {
	k := cacheKey{q: e.qSize, padded: e.padded, s: s}
	if p, ok := e.cache.get(k); ok {
		return p
	}
	p := decompose(s, e.qSize, e.padded)
	e.cache.add(k, p)
	return p
}

func decompose(s string, q int, padded bool) map[string]int {
	runes := []rune(s)
	if padded && q > 1 {
		seq := make([]rune, 0, len(runes)+2*(q-1))
		for i := 0; i < q-1; i++ {
			seq = append(seq, padStart)
		}
		seq = append(seq, runes...)
		for i := 0; i < q-1; i++ {
			seq = append(seq, padEnd)
		}
		runes = seq
	}

	grams := make(map[string]int)
	for i := 0; i+q <= len(runes); i++ {
		grams[string(runes[i:i+q])]++
	}
	return grams
}

// numGrams is the total gram count of s, computed arithmetically without
// decomposing.
func (e *Engine) numGrams(s string) int {
	n := utf8.RuneCountInString(s)
	if e.padded && e.qSize > 1 {
		return n + e.qSize - 1
	}
	return max(n-e.qSize+1, 0)
}

// Distance returns the L1 distance between the q-gram frequency vectors of a
// and b, summed over the union of both gram vocabularies.
func (e *Engine) Distance(a, b string) int {
	return e.profileDistance(a, b, 0)
}

// BoundedDistance is Distance with an early exit: accumulation stops as soon
// as the running sum reaches threshold, and the result is capped there.
// Callers needing only "is the distance >= T" avoid the full computation.
func (e *Engine) BoundedDistance(a, b string, threshold int) (int, error) {
	if threshold < 1 {
		return 0, ErrInvalidThreshold
	}
	return e.profileDistance(a, b, threshold), nil
}

// profileDistance accumulates |count_a(g) - count_b(g)|. threshold 0 means
// unbounded. Accumulation is commutative, so map iteration order only moves
// the early-exit point, never the result.
func (e *Engine) profileDistance(a, b string, threshold int) int {
	if a == b {
		return 0
	}
	if min(e.numGrams(a), e.numGrams(b)) <= 1 {
		// At most one gram on the smaller side: the distance collapses to a
		// binary indicator.
		return 1
	}

	pa, pb := e.profile(a), e.profile(b)
	sum := 0
	for g, ca := range pa {
		cb := pb[g]
		if ca > cb {
			sum += ca - cb
		} else {
			sum += cb - ca
		}
		if threshold > 0 && sum >= threshold {
			return threshold
		}
	}
	for g, cb := range pb {
		if _, shared := pa[g]; shared {
			continue
		}
		sum += cb
		if threshold > 0 && sum >= threshold {
			return threshold
		}
	}
	return sum
}

// Similarity returns the number of shared q-grams between a and b, counting
// multiplicity: the sum over common grams of min(count_a, count_b).
func (e *Engine) Similarity(a, b string) int {
	return e.profileSimilarity(a, b, 0)
}

// BoundedSimilarity is Similarity with an early exit once the running sum
// reaches threshold; the result is capped there.
func (e *Engine) BoundedSimilarity(a, b string, threshold int) (int, error) {
	if threshold < 1 {
		return 0, ErrInvalidThreshold
	}
	return e.profileSimilarity(a, b, threshold), nil
}

func (e *Engine) profileSimilarity(a, b string, threshold int) int {
	na, nb := e.numGrams(a), e.numGrams(b)
	if a == b {
		if threshold > 0 && na > threshold {
			return threshold
		}
		return na
	}
	if min(na, nb) <= 1 {
		return 0
	}
	if threshold > 0 && threshold > min(na, nb) {
		// The target exceeds the maximum possible similarity.
		return 0
	}

	pa, pb := e.profile(a), e.profile(b)
	// Iterate the smaller vocabulary.
	if len(pb) < len(pa) {
		pa, pb = pb, pa
	}
	sum := 0
	for g, ca := range pa {
		sum += min(ca, pb[g])
		if threshold > 0 && sum >= threshold {
			return threshold
		}
	}
	return sum
}

// IsCandidate reports whether the Levenshtein distance between a and b could
// be at most maxDistance. A false result is a proof that the distance exceeds
// the bound; a true result admits false positives and must be verified with
// an exact computation.
//
// The test derives a similarity floor from the q-gram lower bound on edit
// distance: an edit operation can destroy at most qSize grams, so a pair
// within maxDistance edits must retain at least the computed number of shared
// grams.
func (e *Engine) IsCandidate(a, b string, maxDistance int) (bool, error) {
	if maxDistance < 0 {
		return false, ErrInvalidMaxDistance
	}

	longer := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	var threshold int
	if e.padded {
		threshold = longer - 1 - (maxDistance-1)*e.qSize
	} else {
		threshold = longer + 1 - e.qSize - maxDistance*e.qSize
	}
	if threshold <= 0 {
		// Every pair trivially clears a non-positive floor.
		return true, nil
	}
	return e.profileSimilarity(a, b, threshold) >= threshold, nil
}

// Normalize expresses a raw distance or similarity count as a fraction of the
// combined gram volume of both strings. When neither string yields any grams
// the volume is zero and Normalize returns 0.
func (e *Engine) Normalize(a, b string, value int) float64 {
	total := e.numGrams(a) + e.numGrams(b)
	if total == 0 {
		return 0
	}
	return float64(value) / float64(total)
}

// defaultEngine backs the package-level functions. It never caches: the
// package-level form has no lifecycle to scope a cache to.
var defaultEngine = New(WithoutCache())

// Distance is Engine.Distance with q-size 2 and padding.
func Distance(a, b string) int { return defaultEngine.Distance(a, b) }

// Similarity is Engine.Similarity with q-size 2 and padding.
func Similarity(a, b string) int { return defaultEngine.Similarity(a, b) }

// IsCandidate is Engine.IsCandidate with q-size 2 and padding.
func IsCandidate(a, b string, maxDistance int) (bool, error) {
	return defaultEngine.IsCandidate(a, b, maxDistance)
}

// Decompose is Engine.Decompose with q-size 2 and padding.
func Decompose(s string) Profile { return defaultEngine.Decompose(s) }

// Normalize is Engine.Normalize with q-size 2 and padding.
func Normalize(a, b string, value int) float64 { return defaultEngine.Normalize(a, b, value) }

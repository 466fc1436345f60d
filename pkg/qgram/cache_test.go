package qgram

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompose_ReturnsCopy(t *testing.T) {
	e := New()

	p := e.Decompose("Healed")
	for g := range p {
		p[g] = 999
	}

	// Mutating the returned profile must not poison the cache.
	fresh := e.Decompose("Healed")
	sum := 0
	for _, n := range fresh {
		sum += n
	}
	assert.Equal(t, 7, sum)
}

func TestCache_HitServesSameProfile(t *testing.T) {
	e := New()

	first := e.profile("Healed")
	second := e.profile("Healed")
	// Internal profiles are shared on cache hit.
	assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
	assert.Equal(t, 4, e.Distance("Healed", "Sealed"))
}

func TestCache_KeyedByParameters(t *testing.T) {
	e := New()
	tri, err := e.With(3, true)
	require.NoError(t, err)

	// Views share one cache but never each other's entries.
	assert.Len(t, e.Decompose("1234567890"), 11)
	assert.Len(t, tri.Decompose("1234567890"), 12)
	assert.Len(t, e.Decompose("1234567890"), 11)
}

func TestCache_PurgeKeepsResultsStable(t *testing.T) {
	e := New()
	before := e.Distance("kitten", "sitting")
	e.PurgeCache()
	assert.Equal(t, before, e.Distance("kitten", "sitting"))
}

func TestCache_BoundedEviction(t *testing.T) {
	e := New(WithCacheSize(2))

	words := []string{"alpha", "beta", "gamma", "delta", "alpha", "beta"}
	for _, w := range words {
		sum := 0
		for _, n := range e.Decompose(w) {
			sum += n
		}
		// Eviction must never change answers, only recompute them.
		assert.Equal(t, len([]rune(w))+1, sum, "gram volume of %q", w)
	}
	assert.Equal(t, 4, e.Distance("Healed", "Sealed"))
}

func TestCache_Disabled(t *testing.T) {
	e := New(WithoutCache())
	assert.Equal(t, 4, e.Distance("Healed", "Sealed"))
	assert.Equal(t, 5, e.Similarity("Healed", "Sealed"))
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := New()
	words := []string{"kitten", "sitting", "Healed", "Sealed", "mississippi"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				for _, a := range words {
					for _, b := range words {
						if a == b {
							assert.Zero(t, e.Distance(a, b))
						} else {
							assert.Positive(t, e.Distance(a, b))
						}
					}
				}
			}
		}()
	}
	wg.Wait()
}

// Package levenshtein computes codepoint-wise edit distance between two
// strings: the minimum number of single-codepoint insertions, deletions, or
// substitutions transforming one into the other.
//
// Distances are computed over Unicode scalar values, never bytes. No Unicode
// normalization is performed; callers must pre-normalize if NFC/NFD variants
// of equivalent text can occur.
package levenshtein

import "errors"

// ErrInvalidMaxDistance is returned when a supplied distance ceiling is negative.
var ErrInvalidMaxDistance = errors.New("levenshtein: max distance must be >= 0")

// Distance returns the exact Levenshtein distance between a and b.
//
// Rolling-row Wagner-Fischer: O(n*m) time, O(min(n,m)) memory.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b), -1)
}

// DistanceWithMax returns the Levenshtein distance between a and b, capped at
// maxDistance. If the true distance exceeds maxDistance the result is exactly
// maxDistance, and the computation short-circuits as soon as the bound is
// provably reached. Work is O(min(n,m) * maxDistance) instead of O(n*m).
func DistanceWithMax(a, b string, maxDistance int) (int, error) {
	if maxDistance < 0 {
		return 0, ErrInvalidMaxDistance
	}
	return distance([]rune(a), []rune(b), maxDistance), nil
}

// distance runs the DP over rune slices. maxDist < 0 means unbounded.
func distance(s, t []rune, maxDist int) int {
	// The shorter sequence is the column dimension so the rolling row has
	// length min(n,m)+1.
	if len(s) > len(t) {
		s, t = t, s
	}
	m, n := len(s), len(t)

	if maxDist >= 0 && n-m >= maxDist {
		// The distance is at least the length difference.
		return maxDist
	}
	if equalRunes(s, t) {
		return 0
	}
	if m == 0 {
		return n
	}

	// Out-of-band cells must never win a min. Any real cell is <= max(n,m),
	// so anything > n*m is safe.
	inf := n*m + 1

	row := make([]int, m+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= n; i++ {
		lo, hi := 1, m
		if maxDist >= 0 {
			if l := i - maxDist - 1; l > lo {
				lo = l
			}
			if h := i + maxDist; h < hi {
				hi = h
			}
		}

		// left is the freshly computed cell (i, j-1); diag is (i-1, j-1).
		var left, diag int
		if lo == 1 {
			diag = row[0]
			row[0] = i
			left = i
		} else {
			diag = row[lo-1]
			left = inf
		}

		for j := lo; j <= hi; j++ {
			above := row[j]
			cell := diag
			if s[j-1] != t[i-1] {
				cell++
			}
			if c := left + 1; c < cell {
				cell = c
			}
			if c := above + 1; c < cell {
				cell = c
			}
			row[j] = cell
			left = cell
			diag = above
		}
		if hi < m {
			// The cell right of the band is out of band for this row; the
			// next row must not read it as a finished value.
			row[hi+1] = inf
		}

		// The diagonal through the final corner (n, m) passes through column
		// i-(n-m) and only accumulates non-negative deltas, so once it
		// reaches the bound no later row can finish below it. The band always
		// covers it: |i - (i-(n-m))| = n-m < maxDist.
		if maxDist >= 0 {
			if j := i - (n - m); j >= 1 && row[j] >= maxDist {
				return maxDist
			}
		}
	}

	if maxDist >= 0 && row[m] > maxDist {
		return maxDist
	}
	return row[m]
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

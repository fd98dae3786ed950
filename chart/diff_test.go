package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func keyed(keys ...string) []Keyed[string, int] {
	out := make([]Keyed[string, int], len(keys))
	for i, k := range keys {
		out[i] = Keyed[string, int]{Key: k, Value: i}
	}
	return out
}

func TestDiff(t *testing.T) {
	d := Diff(keyed("a", "b", "c"), keyed("b", "c", "d"))

	assert.Equal(t, []Keyed[string, int]{{Key: "d", Value: 2}}, d.Entering)
	assert.Equal(t, []Persisted[string, int]{
		{Key: "b", Old: 1, New: 0},
		{Key: "c", Old: 2, New: 1},
	}, d.Persisting)
	assert.Equal(t, []Keyed[string, int]{{Key: "a", Value: 0}}, d.Exiting)
}

func TestDiffDisjointAndCovering(t *testing.T) {
	prev := keyed("NSW", "VIC", "QLD", "WA")
	next := keyed("QLD", "SA", "NSW", "TAS")
	d := Diff(prev, next)

	seen := make(map[string]int)
	for _, e := range d.Entering {
		seen[e.Key]++
	}
	for _, p := range d.Persisting {
		seen[p.Key]++
	}
	for _, e := range d.Exiting {
		seen[e.Key]++
	}
	for _, k := range append(prev, next...) {
		if seen[k.Key] != 1 {
			t.Errorf("key %s appears in %d subsets, want 1", k.Key, seen[k.Key])
		}
	}
}

func TestDiffEmpty(t *testing.T) {
	d := Diff[string, int](nil, keyed("a"))
	assert.Len(t, d.Entering, 1)
	assert.Empty(t, d.Persisting)
	assert.Empty(t, d.Exiting)

	d = Diff(keyed("a"), nil)
	assert.Len(t, d.Exiting, 1)
}

func TestDiffIgnoresDuplicateKeys(t *testing.T) {
	d := Diff(keyed("a", "a"), keyed("a", "a"))
	assert.Len(t, d.Persisting, 1)
	assert.Empty(t, d.Entering)
	assert.Empty(t, d.Exiting)
}

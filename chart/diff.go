package chart

// Keyed pairs a value with its stable identity.
type Keyed[K comparable, V any] struct {
	Key   K
	Value V
}

// Persisted is a key present in both frames, with its old and new values.
type Persisted[K comparable, V any] struct {
	Key K
	Old V
	New V
}

// Delta is the reconciliation of two keyed collections. The three sets are
// disjoint: Entering and Persisting follow the order of the new collection,
// Exiting follows the order of the old one.
type Delta[K comparable, V any] struct {
	Entering   []Keyed[K, V]
	Persisting []Persisted[K, V]
	Exiting    []Keyed[K, V]
}

// Diff splits prev and next into entering, persisting and exiting items by
// key. Later duplicates of a key are ignored.
func Diff[K comparable, V any](prev, next []Keyed[K, V]) Delta[K, V] {
	old := make(map[K]V, len(prev))
	for _, p := range prev {
		if _, dup := old[p.Key]; !dup {
			old[p.Key] = p.Value
		}
	}

	var d Delta[K, V]
	seen := make(map[K]bool, len(next))
	for _, n := range next {
		if seen[n.Key] {
			continue
		}
		seen[n.Key] = true
		if o, ok := old[n.Key]; ok {
			d.Persisting = append(d.Persisting, Persisted[K, V]{Key: n.Key, Old: o, New: n.Value})
		} else {
			d.Entering = append(d.Entering, n)
		}
	}

	gone := make(map[K]bool)
	for _, p := range prev {
		if seen[p.Key] || gone[p.Key] {
			continue
		}
		gone[p.Key] = true
		d.Exiting = append(d.Exiting, p)
	}
	return d
}

package model

// IDSet is a set of feature ids.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s)
}

// CountIn returns |s ∩ other|.
func (s IDSet) CountIn(other IDSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if large.Has(id) {
			n++
		}
	}
	return n
}

// Missing returns the ids of s that are not in other, sorted.
func (s IDSet) Missing(other IDSet) []string {
	missing := make(map[string]struct{})
	for id := range s {
		if !other.Has(id) {
			missing[id] = struct{}{}
		}
	}
	return sortedKeys(missing)
}

func (s IDSet) Sorted() []string {
	return sortedKeys(s)
}

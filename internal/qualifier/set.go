package qualifier

import "strings"

// Set holds at most one qualifier per kind. The zero value is the empty set.
type Set struct {
	slots [kindCount]slot
}

type slot struct {
	q  Qualifier
	ok bool
}

// Insert stores q in the slot of its kind. When the slot is already taken
// the set is left unchanged and the occupant is returned with ok == false.
func (s *Set) Insert(q Qualifier) (prev Qualifier, ok bool) {
	sl := &s.slots[q.Kind]
	if sl.ok {
		return sl.q, false
	}
	sl.q, sl.ok = q, true
	return Qualifier{}, true
}

// Get returns the qualifier stored for k.
func (s Set) Get(k Kind) (Qualifier, bool) {
	if k >= kindCount {
		return Qualifier{}, false
	}
	return s.slots[k].q, s.slots[k].ok
}

// Has reports whether a qualifier of kind k is present.
func (s Set) Has(k Kind) bool {
	_, ok := s.Get(k)
	return ok
}

// Len counts the present qualifiers.
func (s Set) Len() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].ok {
			n++
		}
	}
	return n
}

// Qualifiers returns the present qualifiers in canonical order.
func (s Set) Qualifiers() []Qualifier {
	out := make([]Qualifier, 0, s.Len())
	for _, k := range Kinds {
		if q, ok := s.Get(k); ok {
			out = append(out, q)
		}
	}
	return out
}

// Equal compares sets field-wise; insertion order and spans do not matter.
func (s Set) Equal(other Set) bool {
	for _, k := range Kinds {
		a, aok := s.Get(k)
		b, bok := other.Get(k)
		if aok != bok || (aok && !a.Equal(b)) {
			return false
		}
	}
	return true
}

// String renders the set in list form, e.g. "[pub, async]".
func (s Set) String() string {
	parts := make([]string, 0, kindCount)
	for _, q := range s.Qualifiers() {
		parts = append(parts, q.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

package model

// FactSet is an insertion-ordered collection of assertions, unique by
// (subject, predicate, object) identity. A FactSet is never mutated after
// construction; Merge returns a new set.
type FactSet struct {
	assertions []Assertion
	index      map[string]int
}

// NewFactSet builds a FactSet from assertions, keeping the first occurrence
// of each identity and preserving insertion order.
func NewFactSet(assertions ...Assertion) *FactSet {
	fs := &FactSet{
		index: make(map[string]int, len(assertions)),
	}
	for _, a := range assertions {
		key := a.Key()
		if _, exists := fs.index[key]; exists {
			continue
		}
		fs.index[key] = len(fs.assertions)
		fs.assertions = append(fs.assertions, a)
	}
	return fs
}

// EmptyFactSet returns a FactSet with no assertions.
func EmptyFactSet() *FactSet {
	return NewFactSet()
}

// Merge returns a new FactSet containing every assertion from primary, in
// order, followed by every assertion from secondary whose identity is not
// already present. On identity collision the primary copy wins; this is a
// policy choice (answer facts take precedence over source facts), not a
// correctness requirement.
func Merge(primary, secondary *FactSet) *FactSet {
	combined := make([]Assertion, 0, primary.Len()+secondary.Len())
	combined = append(combined, primary.assertions...)
	combined = append(combined, secondary.assertions...)
	return NewFactSet(combined...)
}

// Len returns the number of distinct assertions.
func (fs *FactSet) Len() int {
	return len(fs.assertions)
}

// Assertions returns a copy of the assertions in insertion order.
func (fs *FactSet) Assertions() []Assertion {
	out := make([]Assertion, len(fs.assertions))
	copy(out, fs.assertions)
	return out
}

// Contains reports whether an assertion with the same identity is present.
func (fs *FactSet) Contains(a Assertion) bool {
	_, ok := fs.index[a.Key()]
	return ok
}

// TypesOf returns the classes asserted for an entity via explicit
// type-assignment triples, in insertion order. Kind annotations on relation
// triples are not counted: an entity typed only through SubjectKind or
// ObjectKind metadata has no types here. That gap comes from upstream
// extraction fidelity and is surfaced, not patched.
func (fs *FactSet) TypesOf(entity string) []string {
	key := normalize(entity)
	var types []string
	seen := make(map[string]bool)
	for _, a := range fs.assertions {
		if !a.IsTypeAssertion() || normalize(a.Subject) != key {
			continue
		}
		if seen[normalize(a.Object)] {
			continue
		}
		seen[normalize(a.Object)] = true
		types = append(types, a.Object)
	}
	return types
}

// TypedEntities returns, in insertion order, every distinct entity that is
// the subject of at least one type assertion.
func (fs *FactSet) TypedEntities() []string {
	var entities []string
	seen := make(map[string]bool)
	for _, a := range fs.assertions {
		if !a.IsTypeAssertion() {
			continue
		}
		key := normalize(a.Subject)
		if seen[key] {
			continue
		}
		seen[key] = true
		entities = append(entities, a.Subject)
	}
	return entities
}

// Equal reports whether two FactSets hold the same identities, regardless
// of order.
func (fs *FactSet) Equal(other *FactSet) bool {
	if fs.Len() != other.Len() {
		return false
	}
	for key := range fs.index {
		if _, ok := other.index[key]; !ok {
			return false
		}
	}
	return true
}

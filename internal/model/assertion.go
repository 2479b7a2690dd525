package model

import "strings"

// Type-assignment predicates. An assertion whose predicate matches one of
// these states that the subject belongs to the class named by the object.
const (
	PredicateType    = "rdf:type"
	PredicateTypeAlt = "type"
)

// Assertion represents a single subject-predicate-object statement extracted
// from text, annotated with the vocabulary classes of its endpoints.
type Assertion struct {
	Subject     string `json:"sub"`
	Predicate   string `json:"pred"`
	Object      string `json:"obj"`
	SubjectKind string `json:"sub_type,omitempty"` // Vocabulary class of the subject (annotation only)
	ObjectKind  string `json:"obj_type,omitempty"` // Vocabulary class of the object (annotation only)

	// Recognized reports whether both kind annotations mapped to classes
	// known to the loaded vocabulary. Unrecognized assertions are kept but
	// counted separately by the checker so silent drops stay visible.
	Recognized bool `json:"recognized"`
}

// IsTypeAssertion reports whether the predicate assigns a class to the subject.
func (a Assertion) IsTypeAssertion() bool {
	p := normalize(a.Predicate)
	return p == PredicateType || p == PredicateTypeAlt
}

// Key returns the deduplication identity of the assertion. Kind annotations
// are metadata and deliberately excluded.
func (a Assertion) Key() string {
	return normalize(a.Subject) + "\x1f" + normalize(a.Predicate) + "\x1f" + normalize(a.Object)
}

// String renders the assertion in the audit format used by verdict reports.
func (a Assertion) String() string {
	var b strings.Builder
	b.WriteString(a.Subject)
	if a.SubjectKind != "" {
		b.WriteString(" (" + a.SubjectKind + ")")
	}
	b.WriteString(" " + a.Predicate + " " + a.Object)
	if a.ObjectKind != "" {
		b.WriteString(" (" + a.ObjectKind + ")")
	}
	return b.String()
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// ViolationKind classifies a consistency violation
type ViolationKind string

const (
	ViolationDisjointness   ViolationKind = "disjointness"
	ViolationRoleConstraint ViolationKind = "role_constraint"
)

// Violation describes a single constraint breach found by the checker
type Violation struct {
	Kind       ViolationKind `json:"kind"`
	Entity     string        `json:"entity"`               // The offending entity
	Classes    []string      `json:"classes,omitempty"`    // Classes involved (disjoint pair, or role types)
	Message    string        `json:"message"`              // Human-readable description
	Assertions []Assertion   `json:"assertions,omitempty"` // The assertions that triggered the violation
}

// Verdict is the checker's decision for one FactSet. A fresh Verdict is
// produced by every check call and never mutated afterwards. An invalid
// verdict is an expected outcome, not an error.
type Verdict struct {
	Valid        bool        `json:"valid"`
	Violations   []Violation `json:"violations,omitempty"`
	Explanation  string      `json:"explanation,omitempty"` // Multi-line report, set only when invalid
	Checked      int         `json:"checked"`               // Assertions evaluated
	Unrecognized int         `json:"unrecognized"`          // Assertions ignored as unrecognized vocabulary
}

// BuildExplanation renders the full violation report: every input assertion
// first (for auditability), then every violation from both checks, each
// tagged with its kind.
func BuildExplanation(fs *FactSet, violations []Violation, unrecognized int) string {
	var b strings.Builder
	b.WriteString("LOGICAL INCONSISTENCY DETECTED\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString("The following assertions were evaluated:\n\n")
	for i, a := range fs.Assertions() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.String())
	}
	b.WriteString("\nViolations:\n\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "[%s] %s\n", violationTag(v.Kind), v.Message)
	}
	if unrecognized > 0 {
		fmt.Fprintf(&b, "\nNote: %d assertion(s) were ignored as unrecognized vocabulary.\n", unrecognized)
	}
	return b.String()
}

func violationTag(kind ViolationKind) string {
	switch kind {
	case ViolationDisjointness:
		return "Disjointness"
	case ViolationRoleConstraint:
		return "RoleConstraint"
	default:
		return string(kind)
	}
}

// AttemptRecord captures one correction round for diagnostics. Records live
// only for the duration of a Run call; persistence is an external concern.
type AttemptRecord struct {
	Attempt      int           `json:"attempt"` // 0 = initial generation
	Answer       string        `json:"answer"`
	Facts        *FactSet      `json:"-"`
	Verdict      *Verdict      `json:"verdict,omitempty"`
	GenerateTime time.Duration `json:"generate_ms"`
	ExtractTime  time.Duration `json:"extract_ms"`
	CheckTime    time.Duration `json:"check_ms"`
}

package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
)

// ErrCheckerUnavailable marks a genuine checker failure: the axiom
// evaluation itself could not complete. Never used for the "invalid fact
// set" case, which is an expected first-class outcome.
var ErrCheckerUnavailable = errors.New("consistency checker unavailable")

// AxiomReasoner decides class-disjointness consistency for a fact set.
// The default implementation evaluates the loaded disjointness axioms
// locally; an external reasoner can be swapped in behind this interface.
type AxiomReasoner interface {
	CheckDisjointness(ctx context.Context, fs *model.FactSet, m *ontology.ConstraintModel) ([]model.Violation, error)
}

// Checker validates a FactSet against a ConstraintModel. It combines two
// independent checks: axiom-based class disjointness and rule-based role
// constraints. Both run on every call; they report different violation
// classes and both are surfaced in the verdict.
//
// A Checker is immutable after construction and safe for concurrent use.
type Checker struct {
	constraints *ontology.ConstraintModel
	reasoner    AxiomReasoner
	rulesOnly   bool
}

// NewChecker creates a checker over the given constraint model. rulesOnly
// skips the axiom pass and relies on the rule engine alone; it is resolved
// once here, never flipped at runtime.
func NewChecker(constraints *ontology.ConstraintModel, rulesOnly bool) *Checker {
	return &Checker{
		constraints: constraints,
		reasoner:    &localReasoner{},
		rulesOnly:   rulesOnly,
	}
}

// NewCheckerWithReasoner creates a checker backed by a custom axiom reasoner.
func NewCheckerWithReasoner(constraints *ontology.ConstraintModel, reasoner AxiomReasoner) *Checker {
	return &Checker{
		constraints: constraints,
		reasoner:    reasoner,
	}
}

// Check evaluates the fact set and returns a fresh verdict. An invalid fact
// set is reported through the verdict, not the error; the error is reserved
// for the case where axiom evaluation itself cannot complete.
func (c *Checker) Check(ctx context.Context, fs *model.FactSet) (*model.Verdict, error) {
	var violations []model.Violation

	if !c.rulesOnly {
		axViolations, err := c.reasoner.CheckDisjointness(ctx, fs, c.constraints)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCheckerUnavailable, err)
		}
		violations = append(violations, axViolations...)
	}

	// The rule engine runs regardless of the axiom outcome
	violations = append(violations, c.evaluateRoleRules(fs)...)

	unrecognized := countUnrecognized(fs)

	verdict := &model.Verdict{
		Valid:        len(violations) == 0,
		Violations:   violations,
		Checked:      fs.Len(),
		Unrecognized: unrecognized,
	}
	if !verdict.Valid {
		verdict.Explanation = model.BuildExplanation(fs, violations, unrecognized)
	}
	return verdict, nil
}

func countUnrecognized(fs *model.FactSet) int {
	n := 0
	for _, a := range fs.Assertions() {
		if !a.Recognized {
			n++
		}
	}
	return n
}

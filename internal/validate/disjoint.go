package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
)

// localReasoner evaluates the loaded disjointness axioms directly: for every
// typed entity, every unordered pair of its asserted classes is tested
// against the disjointness set. Entities are visited in assertion insertion
// order so reports are deterministic.
type localReasoner struct{}

func (r *localReasoner) CheckDisjointness(ctx context.Context, fs *model.FactSet, m *ontology.ConstraintModel) ([]model.Violation, error) {
	var violations []model.Violation

	for _, entity := range fs.TypedEntities() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		types := fs.TypesOf(entity)
		if len(types) < 2 {
			// Zero or one asserted type can never violate disjointness
			continue
		}

		// All violated pairs are reported, not just the first: a merged
		// fact set from contaminated sources may trip several at once.
		for i := 0; i < len(types); i++ {
			for j := i + 1; j < len(types); j++ {
				if !m.AreDisjoint(types[i], types[j]) {
					continue
				}
				violations = append(violations, model.Violation{
					Kind:    model.ViolationDisjointness,
					Entity:  entity,
					Classes: []string{types[i], types[j]},
					Message: fmt.Sprintf("entity '%s' is asserted as both %s and %s, which are disjoint classes",
						entity, types[i], types[j]),
					Assertions: typeAssertionsFor(fs, entity, types[i], types[j]),
				})
			}
		}
	}

	return violations, nil
}

// typeAssertionsFor collects the type triples that put entity into the
// given classes, for the verdict's audit trail.
func typeAssertionsFor(fs *model.FactSet, entity string, classes ...string) []model.Assertion {
	want := make(map[string]bool, len(classes))
	for _, c := range classes {
		want[strings.ToLower(strings.TrimSpace(c))] = true
	}
	entityKey := strings.ToLower(strings.TrimSpace(entity))

	var out []model.Assertion
	for _, a := range fs.Assertions() {
		if !a.IsTypeAssertion() {
			continue
		}
		if strings.ToLower(strings.TrimSpace(a.Subject)) != entityKey {
			continue
		}
		if want[strings.ToLower(strings.TrimSpace(a.Object))] {
			out = append(out, a)
		}
	}
	return out
}

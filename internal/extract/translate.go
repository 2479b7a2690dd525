package extract

import (
	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
)

// Translate builds a typed Assertion from raw extraction output. Kind
// annotations are canonicalized against the vocabulary where possible.
//
// The Recognized flag records whether every vocabulary reference on the
// assertion (kind annotations, relation name, type-assertion class) is
// known to the constraint model. Unrecognized assertions are kept, not
// dropped: the checker counts them so the fallback-to-untyped handling
// stays visible and testable.
func Translate(sub, pred, obj, subType, objType string, m *ontology.ConstraintModel) model.Assertion {
	a := model.Assertion{
		Subject:     sub,
		Predicate:   pred,
		Object:      obj,
		SubjectKind: subType,
		ObjectKind:  objType,
		Recognized:  true,
	}

	if canonical, ok := m.CanonicalClass(subType); ok {
		a.SubjectKind = canonical
	} else if subType != "" {
		a.Recognized = false
	}

	if a.IsTypeAssertion() {
		if canonical, ok := m.CanonicalClass(obj); ok {
			a.Object = canonical
		} else {
			a.Recognized = false
		}
		return a
	}

	if canonical, ok := m.CanonicalClass(objType); ok {
		a.ObjectKind = canonical
	} else if objType != "" {
		a.Recognized = false
	}

	if !m.KnownProperty(pred) {
		a.Recognized = false
	}

	return a
}

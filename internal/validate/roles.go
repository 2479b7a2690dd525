package validate

import (
	"strings"

	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
)

// evaluateRoleRules runs the rule-based role constraint check. It is
// deliberately conservative: a rule fires when its context class appears
// anywhere in the fact set, rather than requiring the role relation to be
// bound to a specific loan entity. Upstream extraction frequently leaves
// the governing entity implicit ("the loan"), and strict binding would
// silently miss real violations.
//
// Rules are evaluated independently; every firing rule is reported.
func (c *Checker) evaluateRoleRules(fs *model.FactSet) []model.Violation {
	contextClasses := assertedClasses(fs)
	var violations []model.Violation

	for _, rule := range c.constraints.Rules {
		role, ok := c.constraints.RoleByName(rule.Role)
		if !ok {
			continue
		}
		if !contextClasses[classKey(rule.ContextClass)] {
			continue
		}

		for _, holder := range roleHolders(fs, role) {
			if !hasType(fs, holder.entity, rule.ForbiddenType) {
				continue
			}
			violations = append(violations, model.Violation{
				Kind:       model.ViolationRoleConstraint,
				Entity:     holder.entity,
				Classes:    []string{rule.ContextClass, rule.ForbiddenType},
				Message:    rule.RenderMessage(holder.entity),
				Assertions: holder.assertions,
			})
		}
	}

	return violations
}

type holder struct {
	entity     string
	assertions []model.Assertion
}

// roleHolders returns, in insertion order, every distinct entity holding the
// role: subjects of the role's subject relations and objects of its object
// relations.
func roleHolders(fs *model.FactSet, role ontology.Role) []holder {
	subjectRels := relationSet(role.SubjectRelations)
	objectRels := relationSet(role.ObjectRelations)

	var holders []holder
	byEntity := make(map[string]int)

	record := func(entity string, a model.Assertion) {
		key := classKey(entity)
		if idx, ok := byEntity[key]; ok {
			holders[idx].assertions = append(holders[idx].assertions, a)
			return
		}
		byEntity[key] = len(holders)
		holders = append(holders, holder{entity: entity, assertions: []model.Assertion{a}})
	}

	for _, a := range fs.Assertions() {
		pred := classKey(a.Predicate)
		if subjectRels[pred] {
			record(a.Subject, a)
		}
		if objectRels[pred] {
			record(a.Object, a)
		}
	}
	return holders
}

// assertedClasses collects every class asserted anywhere in the fact set
// via type assignment, keyed for case-insensitive lookup.
func assertedClasses(fs *model.FactSet) map[string]bool {
	classes := make(map[string]bool)
	for _, a := range fs.Assertions() {
		if a.IsTypeAssertion() {
			classes[classKey(a.Object)] = true
		}
	}
	return classes
}

func hasType(fs *model.FactSet, entity, class string) bool {
	want := classKey(class)
	for _, t := range fs.TypesOf(entity) {
		if classKey(t) == want {
			return true
		}
	}
	return false
}

func relationSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[classKey(n)] = true
	}
	return set
}

func classKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

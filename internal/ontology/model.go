package ontology

import (
	"sort"
	"strings"
)

// ClassInfo describes one vocabulary class
type ClassInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// PropertyInfo describes one vocabulary relation or attribute
type PropertyInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Role names a relational role and the relations that confer it. An entity
// holds the role when it appears as the subject of any SubjectRelations
// triple or as the object of any ObjectRelations triple.
type Role struct {
	Name             string   `yaml:"name"`
	SubjectRelations []string `yaml:"subject_relations,omitempty"`
	ObjectRelations  []string `yaml:"object_relations,omitempty"`
}

// entityPlaceholder marks where a role-rule message names the offending
// entity. Substitution is literal text replacement; messages never pass
// through a format string.
const entityPlaceholder = "{entity}"

// RoleRule forbids entities of a given type from holding a role when the
// governing context class is asserted anywhere in the fact set. The message
// template names the offending entity via the {entity} placeholder.
type RoleRule struct {
	Role          string `yaml:"role"`
	ContextClass  string `yaml:"context_class"`
	ForbiddenType string `yaml:"forbidden_type"`
	Message       string `yaml:"message"`
}

// RenderMessage fills the message template with the offending entity's name.
func (r RoleRule) RenderMessage(entity string) string {
	return strings.ReplaceAll(r.Message, entityPlaceholder, entity)
}

// ConstraintModel is the loaded, read-only vocabulary: known classes and
// properties, class-disjointness axioms, and role constraints. It is built
// once at startup and safe for concurrent readers.
type ConstraintModel struct {
	Classes    []ClassInfo
	Properties []PropertyInfo
	Disjoint   [][2]string // Unordered pairs, expanded from axiom groups
	Roles      []Role
	Rules      []RoleRule

	classSet    map[string]string // normalized -> canonical
	propertySet map[string]string
	disjointSet map[string]bool
	roleByName  map[string]Role
}

// finalize builds the lookup indexes. Called once by the loader; the model
// is immutable afterwards.
func (m *ConstraintModel) finalize() {
	m.classSet = make(map[string]string, len(m.Classes))
	for _, c := range m.Classes {
		m.classSet[normalize(c.Name)] = c.Name
	}
	m.propertySet = make(map[string]string, len(m.Properties))
	for _, p := range m.Properties {
		m.propertySet[normalize(p.Name)] = p.Name
	}
	m.disjointSet = make(map[string]bool, len(m.Disjoint))
	for _, pair := range m.Disjoint {
		m.disjointSet[pairKey(pair[0], pair[1])] = true
	}
	m.roleByName = make(map[string]Role, len(m.Roles))
	for _, r := range m.Roles {
		m.roleByName[r.Name] = r
	}
}

// CanonicalClass resolves a class name (optionally CURIE-prefixed) to its
// canonical vocabulary spelling.
func (m *ConstraintModel) CanonicalClass(name string) (string, bool) {
	canonical, ok := m.classSet[normalize(stripPrefix(name))]
	return canonical, ok
}

// KnownClass reports whether the class is part of the vocabulary.
func (m *ConstraintModel) KnownClass(name string) bool {
	_, ok := m.CanonicalClass(name)
	return ok
}

// KnownProperty reports whether the relation is part of the vocabulary.
func (m *ConstraintModel) KnownProperty(name string) bool {
	_, ok := m.propertySet[normalize(stripPrefix(name))]
	return ok
}

// AreDisjoint reports whether two classes may not share an individual.
// The pair is unordered.
func (m *ConstraintModel) AreDisjoint(a, b string) bool {
	return m.disjointSet[pairKey(stripPrefix(a), stripPrefix(b))]
}

// RoleByName returns the role definition for a rule's role reference.
func (m *ConstraintModel) RoleByName(name string) (Role, bool) {
	r, ok := m.roleByName[name]
	return r, ok
}

func pairKey(a, b string) string {
	x, y := normalize(a), normalize(b)
	if x > y {
		x, y = y, x
	}
	return x + "\x1f" + y
}

// stripPrefix removes a CURIE prefix like "fibo-loan:" from a name.
func stripPrefix(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ClassNames returns the sorted canonical class names, for display.
func (m *ConstraintModel) ClassNames() []string {
	names := make([]string, 0, len(m.Classes))
	for _, c := range m.Classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

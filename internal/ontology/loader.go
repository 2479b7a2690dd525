package ontology

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelLoadError indicates the vocabulary source was missing or malformed.
// Fatal at startup: no query may run without a constraint model.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load constraint model %q: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// vocabularyFile is the on-disk YAML shape produced by the vocabulary
// scanner. Disjointness axioms may group more than two classes; groups are
// expanded to unordered pairs on load.
type vocabularyFile struct {
	Classes    []ClassInfo    `yaml:"classes"`
	Properties []PropertyInfo `yaml:"properties"`
	Disjoint   [][]string     `yaml:"disjoint"`
	Roles      []Role         `yaml:"roles"`
	Rules      []RoleRule     `yaml:"rules"`
}

// Load reads a constraint model from a YAML vocabulary file. Invoked once
// at startup; the returned model is immutable.
func Load(path string) (*ConstraintModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse builds a constraint model from raw vocabulary YAML.
func Parse(source string, data []byte) (*ConstraintModel, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ModelLoadError{Path: source, Err: err}
	}

	if len(file.Classes) == 0 {
		return nil, &ModelLoadError{Path: source, Err: fmt.Errorf("vocabulary defines no classes")}
	}

	m := &ConstraintModel{
		Classes:    file.Classes,
		Properties: file.Properties,
		Roles:      file.Roles,
		Rules:      file.Rules,
	}

	for _, group := range file.Disjoint {
		if len(group) < 2 {
			return nil, &ModelLoadError{Path: source, Err: fmt.Errorf("disjointness axiom needs at least 2 classes, got %v", group)}
		}
		// AllDisjointClasses semantics: every pair in the group is disjoint
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				m.Disjoint = append(m.Disjoint, [2]string{group[i], group[j]})
			}
		}
	}

	for _, rule := range file.Rules {
		if _, ok := findRole(file.Roles, rule.Role); !ok {
			return nil, &ModelLoadError{Path: source, Err: fmt.Errorf("rule references unknown role %q", rule.Role)}
		}
		if !strings.Contains(rule.Message, entityPlaceholder) {
			return nil, &ModelLoadError{Path: source, Err: fmt.Errorf("rule for role %q: message must name the offending entity via %s", rule.Role, entityPlaceholder)}
		}
	}

	m.finalize()
	return m, nil
}

func findRole(roles []Role, name string) (Role, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

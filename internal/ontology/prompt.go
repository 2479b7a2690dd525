package ontology

import (
	"fmt"
	"strings"
)

const maxPromptDisjoints = 15

// ExtractionPrompt renders the loaded vocabulary into the system prompt for
// the triple extractor, so the extractor only maps entities onto classes and
// relations the checker actually knows.
func ExtractionPrompt(m *ConstraintModel) string {
	var b strings.Builder

	b.WriteString("You are a Semantic Translator for financial loan documents. ")
	b.WriteString("Extract facts from the text and map them to these vocabulary concepts:\n\n")

	b.WriteString("Classes:\n")
	for _, c := range m.Classes {
		if c.Description != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.Name)
		}
	}

	b.WriteString("\nProperties:\n")
	for _, p := range m.Properties {
		if p.Description != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", p.Name)
		}
	}

	if len(m.Disjoint) > 0 {
		b.WriteString("\nMutually exclusive classes (an entity can never be both):\n")
		for i, pair := range m.Disjoint {
			if i >= maxPromptDisjoints {
				break
			}
			fmt.Fprintf(&b, "- %s / %s\n", pair[0], pair[1])
		}
	}

	b.WriteString(`
Rules:
1. Extract only factual assertions that are explicitly stated in the text
2. Map entities to the MOST SPECIFIC class that applies
3. Emit an explicit type triple for every entity: {"sub": "X", "pred": "rdf:type", "obj": "ClassName"}
4. Focus on relationships between lenders, borrowers, and loans
5. Include loan characteristics (amount, rate, type) when mentioned
6. Each triple must have: sub, pred, obj, sub_type, obj_type

Return JSON in this exact format:
{"triples": [{"sub": "...", "pred": "...", "obj": "...", "sub_type": "...", "obj_type": "..."}]}

If no triples can be extracted, return: {"triples": []}
`)

	return b.String()
}

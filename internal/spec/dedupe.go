package spec

import (
	"encoding/json"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// keyNode is the canonical-shape shadow of a schema: everything that makes
// two schemas structurally distinct, and nothing else. Descriptions are
// excluded at every level. json.Marshal sorts map keys, which makes the
// serialized form deterministic.
type keyNode struct {
	Kind       string              `json:"kind,omitempty"`
	Ref        string              `json:"$ref,omitempty"`
	Type       string              `json:"type,omitempty"`
	Format     string              `json:"format,omitempty"`
	Default    any                 `json:"default,omitempty"`
	Min        *float64            `json:"minimum,omitempty"`
	Max        *float64            `json:"maximum,omitempty"`
	Required   []string            `json:"required,omitempty"`
	Properties map[string]*keyNode `json:"properties,omitempty"`
	Items      *keyNode            `json:"items,omitempty"`
}

func toKeyNode(ref *openapi3.SchemaRef) *keyNode {
	if ref == nil {
		return nil
	}
	if ref.Ref != "" {
		return &keyNode{Ref: ref.Ref}
	}
	s := ref.Value
	if s == nil {
		return nil
	}
	n := &keyNode{
		Type:    s.Type,
		Format:  s.Format,
		Default: s.Default,
		Min:     s.Min,
		Max:     s.Max,
	}
	if len(s.Required) > 0 {
		n.Required = append([]string(nil), s.Required...)
		sort.Strings(n.Required)
	}
	if len(s.Properties) > 0 {
		n.Properties = make(map[string]*keyNode, len(s.Properties))
		for name, prop := range s.Properties {
			n.Properties[name] = toKeyNode(prop)
		}
	}
	if s.Items != nil {
		n.Items = toKeyNode(s.Items)
	}
	return n
}

// canonicalKey serializes the canonical shape of a table entry. The semantic
// kind participates in the key: an empty request container and an empty
// response container are distinct types.
func (p *Pipeline) canonicalKey(ref *openapi3.SchemaRef) string {
	n := toKeyNode(ref)
	if n != nil && ref.Value != nil {
		if k, ok := p.kinds[ref.Value]; ok {
			n.Kind = k.String()
		}
	}
	b, err := json.Marshal(n)
	if err != nil {
		// keyNode contains only marshalable values; defaults come from
		// decoded YAML/JSON and stay marshalable.
		panic(err)
	}
	return string(b)
}

// dedupe replaces registrar-minted duplicates of canonical shapes with shared
// references, merges the canonical catalogue into the table, and reports the
// residual duplicate groups, most frequent first. The report is advisory:
// residual duplicates are a generator-quality issue, not an error.
func (p *Pipeline) dedupe() []DuplicateGroup {
	extraKeys := make(map[string]string, len(p.extras))
	for _, extra := range p.extras {
		// Extras participate in kind tagging like any registered schema.
		p.kinds[extra.Schema.Value] = extra.Kind
		extraKeys[p.canonicalKey(extra.Schema)] = extra.Name
	}

	table := p.doc.Components.Schemas
	occurrences := map[string][]string{}
	for _, name := range p.tableNames() {
		key := p.canonicalKey(table[name])
		if canon, ok := extraKeys[key]; ok {
			if canon != name {
				delete(table, name)
				p.replacements[name] = canon
			}
			continue
		}
		occurrences[key] = append(occurrences[key], name)
	}

	// The canonical schemas are always present regardless of use.
	for _, extra := range p.extras {
		table[extra.Name] = extra.Schema
	}

	var groups []DuplicateGroup
	for key, names := range occurrences {
		if len(names) > 1 {
			groups = append(groups, DuplicateGroup{Key: key, Names: names})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Names) != len(groups[j].Names) {
			return len(groups[i].Names) > len(groups[j].Names)
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

package spec

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// knownRanges are numeric ranges fully implied by an integer format; declaring
// them as minimum/maximum adds no information and is elided.
var knownRanges = map[string]struct{ min, max float64 }{
	"int32":  {-2147483648, 2147483647},
	"uint32": {0, 4294967295},
}

// Canonicalize normalizes a schema in place to a minimal, comparison-stable
// form: structurally equivalent schemas end up with byte-identical canonical
// keys. Descriptions are left alone (they are excluded from keys instead).
//
// Reference edges are never followed: each table entry is canonicalized at
// its own visit. The schema graph restricted to non-reference edges is
// acyclic, so the recursion terminates.
func Canonicalize(ref *openapi3.SchemaRef) {
	if ref == nil || ref.Ref != "" || ref.Value == nil {
		return
	}
	s := ref.Value
	switch s.Type {
	case "string":
		if d, ok := s.Default.(string); ok && d == "" {
			s.Default = nil
		}
	case "boolean":
		if d, ok := s.Default.(bool); ok && !d {
			s.Default = nil
		}
	case "integer":
		if s.Format == "" {
			s.Format = "int32"
		}
		if r, ok := knownRanges[s.Format]; ok && s.Min != nil && s.Max != nil && *s.Min == r.min && *s.Max == r.max {
			s.Min, s.Max = nil, nil
		}
		if isZeroNumber(s.Default) {
			s.Default = nil
		}
	case "number":
		if isZeroNumber(s.Default) {
			s.Default = nil
		}
	case "array":
		Canonicalize(s.Items)
	case "object":
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			Canonicalize(s.Properties[name])
		}
	}
}

// isZeroNumber treats any numeric representation of zero as zero; YAML and
// JSON decoding hand defaults over as different Go types.
func isZeroNumber(v any) bool {
	switch n := v.(type) {
	case float64:
		return n == 0
	case float32:
		return n == 0
	case int:
		return n == 0
	case int64:
		return n == 0
	case uint64:
		return n == 0
	default:
		return false
	}
}

// canonicalizeTable normalizes every type-table entry.
func (p *Pipeline) canonicalizeTable() {
	for _, name := range p.tableNames() {
		Canonicalize(p.doc.Components.Schemas[name])
	}
}

package spec

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// envelopeField is the declared shape an envelope property must have.
// Only type and format are compared; descriptions and defaults are not —
// some upstream definitions omit defaults inconsistently, and minimum/maximum
// vary with them.
type envelopeField struct {
	typ    string
	format string
}

var requestEnvelope = map[string]envelopeField{
	"ClientID":            {"integer", "uint32"},
	"ClientTransactionID": {"integer", "uint32"},
}

var responseEnvelope = map[string]envelopeField{
	"ClientTransactionID": {"integer", "uint32"},
	"ServerTransactionID": {"integer", "uint32"},
	"ErrorNumber":         {"integer", "int32"},
	"ErrorMessage":        {"string", ""},
}

// stripEnvelopes runs once over the whole type table after classification and
// removes the fixed transaction/error envelope from every request and
// response schema, leaving only operation-specific payload fields. Path
// schemas are left untouched.
func (p *Pipeline) stripEnvelopes() error {
	for _, name := range p.tableNames() {
		ref := p.doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		var fields map[string]envelopeField
		switch p.kinds[ref.Value] {
		case KindRequest:
			fields = requestEnvelope
		case KindResponse:
			fields = responseEnvelope
		default:
			continue
		}
		if err := stripEnvelope(ref.Value, fields); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func stripEnvelope(s *openapi3.Schema, fields map[string]envelopeField) error {
	names := make([]string, 0, len(fields))
	for fname := range fields {
		names = append(names, fname)
	}
	sort.Strings(names)

	for _, fname := range names {
		want := fields[fname]
		prop := s.Properties[fname]
		if prop == nil || prop.Value == nil {
			return fmt.Errorf("missing mandatory envelope field %q", fname)
		}
		if prop.Value.Type != want.typ || prop.Value.Format != want.format {
			return fmt.Errorf("envelope field %q must be %s/%s, got %s/%s",
				fname, want.typ, orNone(want.format), prop.Value.Type, orNone(prop.Value.Format))
		}
		delete(s.Properties, fname)
		s.Required = removeString(s.Required, fname)
	}
	return nil
}

func orNone(format string) string {
	if format == "" {
		return "none"
	}
	return format
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

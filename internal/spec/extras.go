package spec

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Extra is one entry of the canonical/reusable schema catalogue: a well-known
// shape the deduplicator prefers over registrar-minted duplicates. Extras are
// merged into the type table whether or not anything deduplicated to them.
type Extra struct {
	Name   string
	Kind   Kind
	Schema *openapi3.SchemaRef
}

// CanonicalSchemas returns the fixed catalogue: the empty container for each
// payload kind and the two device-identification path shapes. Shapes are
// already in canonical form (uint32 formats carry no redundant min/max).
func CanonicalSchemas() []Extra {
	return []Extra{
		{
			Name:   "EmptyRequest",
			Kind:   KindRequest,
			Schema: objectSchema(nil, nil),
		},
		{
			Name:   "EmptyResponse",
			Kind:   KindResponse,
			Schema: objectSchema(nil, nil),
		},
		{
			Name: "DeviceNumberPath",
			Kind: KindPath,
			Schema: objectSchema(map[string]*openapi3.SchemaRef{
				"device_number": uint32Schema(),
			}, []string{"device_number"}),
		},
		{
			Name: "DeviceTypeAndNumberPath",
			Kind: KindPath,
			Schema: objectSchema(map[string]*openapi3.SchemaRef{
				"device_type":   {Value: &openapi3.Schema{Type: "string"}},
				"device_number": uint32Schema(),
			}, []string{"device_number", "device_type"}),
		},
	}
}

func objectSchema(props map[string]*openapi3.SchemaRef, required []string) *openapi3.SchemaRef {
	s := &openapi3.Schema{Type: "object", Properties: openapi3.Schemas{}}
	for name, prop := range props {
		s.Properties[name] = prop
	}
	s.Required = required
	return &openapi3.SchemaRef{Value: s}
}

func uint32Schema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "integer", Format: "uint32"}}
}

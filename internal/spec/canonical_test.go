package spec

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func fptr(f float64) *float64 { return &f }

func TestCanonicalizeRangeElision(t *testing.T) {
	full := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type: "integer", Format: "uint32", Min: fptr(0), Max: fptr(4294967295),
	}}
	Canonicalize(full)
	if full.Value.Min != nil || full.Value.Max != nil {
		t.Error("full uint32 range must be elided")
	}

	partial := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type: "integer", Format: "uint32", Min: fptr(1), Max: fptr(4294967295),
	}}
	Canonicalize(partial)
	if partial.Value.Min == nil || *partial.Value.Min != 1 {
		t.Error("a narrowed minimum must be retained")
	}

	signed := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type: "integer", Min: fptr(-2147483648), Max: fptr(2147483647),
	}}
	Canonicalize(signed)
	if signed.Value.Format != "int32" {
		t.Errorf("missing integer format must default to int32, got %q", signed.Value.Format)
	}
	if signed.Value.Min != nil || signed.Value.Max != nil {
		t.Error("full int32 range must be elided")
	}
}

func TestCanonicalizeDefaultElision(t *testing.T) {
	cases := []struct {
		name   string
		schema *openapi3.Schema
		elided bool
	}{
		{"empty string", &openapi3.Schema{Type: "string", Default: ""}, true},
		{"non-empty string", &openapi3.Schema{Type: "string", Default: "x"}, false},
		{"false boolean", &openapi3.Schema{Type: "boolean", Default: false}, true},
		{"true boolean", &openapi3.Schema{Type: "boolean", Default: true}, false},
		{"zero integer", &openapi3.Schema{Type: "integer", Default: float64(0)}, true},
		{"zero number", &openapi3.Schema{Type: "number", Default: 0}, true},
		{"nonzero number", &openapi3.Schema{Type: "number", Default: 1.5}, false},
	}
	for _, tc := range cases {
		Canonicalize(&openapi3.SchemaRef{Value: tc.schema})
		if gone := tc.schema.Default == nil; gone != tc.elided {
			t.Errorf("%s: default elided = %v, want %v", tc.name, gone, tc.elided)
		}
	}
}

func TestCanonicalizeRecursesSkippingRefs(t *testing.T) {
	inner := &openapi3.Schema{Type: "integer", Min: fptr(0), Max: fptr(4294967295), Format: "uint32"}
	viaRef := &openapi3.Schema{Type: "integer"}
	root := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type: "object",
		Properties: openapi3.Schemas{
			"direct":  {Value: &openapi3.Schema{Type: "array", Items: &openapi3.SchemaRef{Value: inner}}},
			"shared":  {Ref: "#/components/schemas/Shared", Value: viaRef},
		},
	}}
	Canonicalize(root)

	if inner.Min != nil || inner.Max != nil {
		t.Error("array item schema must be canonicalized through the direct edge")
	}
	if viaRef.Format != "" {
		t.Error("schemas behind references must not be touched here")
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	model := runSample(t)
	p := NewPipeline(model.Doc)
	p.kinds = model.Kinds

	before := map[string]string{}
	for name, ref := range model.Table() {
		before[name] = p.canonicalKey(ref)
	}
	for _, ref := range model.Table() {
		Canonicalize(ref)
	}
	for name, ref := range model.Table() {
		if got := p.canonicalKey(ref); got != before[name] {
			t.Errorf("%s: canonical key changed on second pass", name)
		}
	}
}

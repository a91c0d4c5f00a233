package spec

import (
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

func responseSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Type: "object",
		Properties: openapi3.Schemas{
			"ClientTransactionID": {Value: &openapi3.Schema{Type: "integer", Format: "uint32"}},
			"ServerTransactionID": {Value: &openapi3.Schema{Type: "integer", Format: "uint32"}},
			"ErrorNumber":         {Value: &openapi3.Schema{Type: "integer", Format: "int32"}},
			"ErrorMessage":        {Value: &openapi3.Schema{Type: "string"}},
			"Value":               {Value: &openapi3.Schema{Type: "boolean"}},
		},
		Required: []string{"ClientTransactionID", "ServerTransactionID", "ErrorNumber", "ErrorMessage"},
	}
}

func TestStripResponseEnvelope(t *testing.T) {
	s := responseSchema()
	if err := stripEnvelope(s, responseEnvelope); err != nil {
		t.Fatalf("strip: %v", err)
	}
	if got := len(s.Properties); got != 1 {
		t.Fatalf("properties after strip = %d, want 1", got)
	}
	if _, ok := s.Properties["Value"]; !ok {
		t.Error("payload property Value must survive")
	}
	if len(s.Required) != 0 {
		t.Errorf("required after strip = %v, want none", s.Required)
	}
}

func TestStripMissingEnvelopeField(t *testing.T) {
	s := responseSchema()
	delete(s.Properties, "ErrorNumber")

	err := stripEnvelope(s, responseEnvelope)
	if err == nil {
		t.Fatal("expected failure for missing envelope field")
	}
	if !strings.Contains(err.Error(), "ErrorNumber") {
		t.Errorf("error must name the field, got: %v", err)
	}
}

func TestStripWrongEnvelopeShape(t *testing.T) {
	s := responseSchema()
	s.Properties["ServerTransactionID"].Value.Format = "int64"

	if err := stripEnvelope(s, responseEnvelope); err == nil {
		t.Fatal("expected failure for wrong envelope field format")
	}
}

func TestStripIgnoresInconsistentDefaults(t *testing.T) {
	// Some upstream definitions carry defaults on the client-id fields and
	// some omit them; both must strip cleanly.
	s := &openapi3.Schema{
		Type: "object",
		Properties: openapi3.Schemas{
			"ClientID":            {Value: &openapi3.Schema{Type: "integer", Format: "uint32", Default: float64(5)}},
			"ClientTransactionID": {Value: &openapi3.Schema{Type: "integer", Format: "uint32"}},
			"Connected":           {Value: &openapi3.Schema{Type: "boolean"}},
		},
	}
	if err := stripEnvelope(s, requestEnvelope); err != nil {
		t.Fatalf("strip: %v", err)
	}
	if got := len(s.Properties); got != 1 {
		t.Errorf("properties after strip = %d, want 1", got)
	}
}

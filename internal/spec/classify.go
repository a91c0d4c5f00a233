package spec

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/huandu/xstrings"
)

const (
	mimeJSON = "application/json"
	mimeForm = "application/x-www-form-urlencoded"
	mimeText = "text/plain"
)

// typeName derives the type-table name for an operation's schema role,
// e.g. ("get_telescope_connected", "Response") -> "GetTelescopeConnectedResponse".
func typeName(opID, role string) string {
	return xstrings.ToCamelCase(opID) + role
}

// classify validates the operation against the fixed shape every device API
// entry must have and tags/registers its path, request and response schemas.
func (p *Pipeline) classify(op *Operation, groups *paramGroups) error {
	if groups.path == nil {
		return fmt.Errorf("missing path parameters")
	}
	pathRef, err := p.tagAndRegister(typeName(op.ID, "Path"), &openapi3.SchemaRef{Value: groups.path}, KindPath)
	if err != nil {
		return err
	}
	op.PathSchema = pathRef

	if op.Method == "get" {
		if op.Op.RequestBody != nil {
			return fmt.Errorf("GET operation must not declare a request body")
		}
		if groups.query == nil {
			return fmt.Errorf("missing query parameters")
		}
		reqRef, err := p.tagAndRegister(typeName(op.ID, "Request"), &openapi3.SchemaRef{Value: groups.query}, KindRequest)
		if err != nil {
			return err
		}
		op.RequestSchema = reqRef
		op.RequestKind = RequestKindQuery
	} else {
		if groups.query != nil {
			return fmt.Errorf("non-GET operation must not declare query parameters")
		}
		bodySchema, err := formBodySchema(op.Op.RequestBody)
		if err != nil {
			return err
		}
		reqRef, err := p.tagAndRegister(typeName(op.ID, "Request"), bodySchema, KindRequest)
		if err != nil {
			return err
		}
		op.RequestSchema = reqRef
		op.RequestKind = RequestKindForm
	}

	respRef, err := p.classifyResponses(op)
	if err != nil {
		return err
	}
	op.ResponseSchema = respRef
	return nil
}

// tagAndRegister tags a schema with its kind and, unless it is already a
// reference into the type table, registers it under name. Already-registered
// references are tagged at their target.
func (p *Pipeline) tagAndRegister(name string, ref *openapi3.SchemaRef, kind Kind) (*openapi3.SchemaRef, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%s: schema is unresolved", name)
	}
	if err := p.setKind(ref.Value, kind); err != nil {
		return nil, err
	}
	if ref.Ref != "" {
		return ref, nil
	}
	return p.register(name, ref), nil
}

// formBodySchema validates the fixed request-body shape: exactly one media
// entry, form-urlencoded, object-typed.
func formBodySchema(body *openapi3.RequestBodyRef) (*openapi3.SchemaRef, error) {
	if body == nil || body.Value == nil {
		return nil, fmt.Errorf("missing request body")
	}
	if len(body.Value.Content) != 1 {
		return nil, fmt.Errorf("request body must declare exactly one media type, got %d", len(body.Value.Content))
	}
	mt := body.Value.Content[mimeForm]
	if mt == nil {
		return nil, fmt.Errorf("request body media type must be %s", mimeForm)
	}
	if mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("request body has no schema")
	}
	if mt.Schema.Value.Type != "object" {
		return nil, fmt.Errorf("request body schema must be an object, got %q", mt.Schema.Value.Type)
	}
	return mt.Schema, nil
}

// classifyResponses enforces the fixed response shape: a mandatory 200 with a
// single JSON object body, and exactly the 400/500 plain-text error pair.
func (p *Pipeline) classifyResponses(op *Operation) (*openapi3.SchemaRef, error) {
	resps := op.Op.Responses
	ok := resps["200"]
	if ok == nil || ok.Value == nil {
		return nil, fmt.Errorf("missing success (200) response")
	}
	if len(ok.Value.Content) != 1 {
		return nil, fmt.Errorf("success response must declare exactly one media type, got %d", len(ok.Value.Content))
	}
	mt := ok.Value.Content[mimeJSON]
	if mt == nil {
		return nil, fmt.Errorf("success response media type must be %s", mimeJSON)
	}
	if mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("success response has no schema")
	}
	if mt.Schema.Value.Type != "object" {
		return nil, fmt.Errorf("success response schema must be an object, got %q", mt.Schema.Value.Type)
	}

	rest := make([]string, 0, len(resps)-1)
	for code := range resps {
		if code != "200" {
			rest = append(rest, code)
		}
	}
	sort.Strings(rest)
	if len(rest) != 2 || rest[0] != "400" || rest[1] != "500" {
		return nil, fmt.Errorf("error responses must be exactly 400 and 500, got %v", rest)
	}
	for _, code := range rest {
		if err := checkErrorResponse(resps[code]); err != nil {
			return nil, fmt.Errorf("response %s: %w", code, err)
		}
	}

	return p.tagAndRegister(typeName(op.ID, "Response"), mt.Schema, KindResponse)
}

// checkErrorResponse compares an error response against the fixed plain-text
// string shape. Descriptions are ignored at every level.
func checkErrorResponse(ref *openapi3.ResponseRef) error {
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("missing response")
	}
	if len(ref.Value.Content) != 1 {
		return fmt.Errorf("must declare exactly one media type, got %d", len(ref.Value.Content))
	}
	mt := ref.Value.Content[mimeText]
	if mt == nil {
		return fmt.Errorf("media type must be %s", mimeText)
	}
	if mt.Schema == nil || mt.Schema.Value == nil {
		return fmt.Errorf("has no schema")
	}
	if mt.Schema.Value.Type != "string" {
		return fmt.Errorf("schema must be a plain string, got %q", mt.Schema.Value.Type)
	}
	return nil
}

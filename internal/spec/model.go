package spec

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Kind classifies a registered schema by the role it plays in an operation:
// path-parameter container, request payload, or response payload. A schema is
// assigned exactly one kind for its whole lifetime; assigning a conflicting
// kind is a fatal pipeline error.
type Kind int

const (
	KindNone Kind = iota
	KindPath
	KindRequest
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "Path"
	case KindRequest:
		return "Request"
	case KindResponse:
		return "Response"
	default:
		return "None"
	}
}

// RequestKind says how an operation's request payload travels on the wire.
type RequestKind int

const (
	RequestKindNone RequestKind = iota
	// RequestKindQuery: parameters encoded in the URL query string (GET).
	RequestKindQuery
	// RequestKindForm: application/x-www-form-urlencoded body (PUT).
	RequestKindForm
)

func (k RequestKind) String() string {
	switch k {
	case RequestKindQuery:
		return "Query"
	case RequestKindForm:
		return "Form"
	default:
		return "None"
	}
}

// Operation is one method+path entry of the device API description, annotated
// by the pipeline with references into the shared type table.
type Operation struct {
	Path   string
	Method string
	// ID is the stable identifier: method concatenated with the
	// non-placeholder path segments, e.g. "get_telescope_connected".
	ID string
	// Group is the device-group token derived from the path; "*" for
	// device-type-parameterized paths.
	Group string
	// SubPath is the trailing action token of the path.
	SubPath string

	Op *openapi3.Operation

	// Set by the classifier; each points at a type-table entry.
	PathSchema     *openapi3.SchemaRef
	RequestSchema  *openapi3.SchemaRef
	ResponseSchema *openapi3.SchemaRef
	RequestKind    RequestKind

	// CanonicalName is the pre-existing method name from the auxiliary
	// naming source, when a resolver is configured.
	CanonicalName string
}

// NameResolver maps a device group and sub-path to a canonical method name.
// A missing entry is a fatal error: the naming source and the API description
// have drifted out of sync.
type NameResolver interface {
	Resolve(group, subPath string) (string, error)
}

// DuplicateGroup reports a residual duplicate shape left in the type table
// after deduplication. Purely advisory.
type DuplicateGroup struct {
	Key   string
	Names []string
}

// Model is the pipeline artifact handed to the renderer: the mutated document
// plus everything the document itself cannot carry.
type Model struct {
	Doc *openapi3.T
	// Operations in enumeration order.
	Operations []*Operation
	// Kinds is the semantic-kind sidecar for every classified schema.
	Kinds map[*openapi3.Schema]Kind
	// Replacements maps minted type names that were superseded by a
	// canonical schema to the canonical name.
	Replacements map[string]string
	// Duplicates lists residual duplicate shapes, most frequent first.
	Duplicates []DuplicateGroup
}

// Table returns the shared type table.
func (m *Model) Table() openapi3.Schemas {
	if m.Doc == nil || m.Doc.Components == nil {
		return nil
	}
	return m.Doc.Components.Schemas
}

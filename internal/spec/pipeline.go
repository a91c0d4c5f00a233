package spec

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

const schemaRefPrefix = "#/components/schemas/"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExtras overrides the canonical schema catalogue. Intended for tests;
// production runs use CanonicalSchemas.
func WithExtras(extras []Extra) Option {
	return func(p *Pipeline) { p.extras = extras }
}

// WithNameResolver attaches the auxiliary naming source. When set, every
// operation must resolve to a canonical method name or the run fails.
func WithNameResolver(r NameResolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

// Pipeline owns the document for the duration of a run and mutates it in
// place, stage after stage, on a single goroutine.
type Pipeline struct {
	doc          *openapi3.T
	kinds        map[*openapi3.Schema]Kind
	extras       []Extra
	resolver     NameResolver
	replacements map[string]string
}

// NewPipeline prepares a pipeline over doc. The document must carry a
// components section; the pipeline creates the type table if absent.
func NewPipeline(doc *openapi3.T, opts ...Option) *Pipeline {
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	p := &Pipeline{
		doc:          doc,
		kinds:        map[*openapi3.Schema]Kind{},
		extras:       CanonicalSchemas(),
		replacements: map[string]string{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes every stage in dependency order: enumerate, group, classify
// and register per operation, then a second pass over the whole type table
// (strip, canonicalize, dedupe). The first violated invariant aborts the run.
func (p *Pipeline) Run() (*Model, error) {
	ops := Enumerate(p.doc)
	for _, op := range ops {
		groups, err := groupParameters(p.doc, op)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.ID, err)
		}
		if err := p.classify(op, groups); err != nil {
			return nil, fmt.Errorf("%s: %w", op.ID, err)
		}
		if p.resolver != nil {
			name, err := p.resolver.Resolve(op.Group, op.SubPath)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op.ID, err)
			}
			op.CanonicalName = name
		}
	}

	if err := p.stripEnvelopes(); err != nil {
		return nil, err
	}
	p.canonicalizeTable()
	dups := p.dedupe()

	return &Model{
		Doc:          p.doc,
		Operations:   ops,
		Kinds:        p.kinds,
		Replacements: p.replacements,
		Duplicates:   dups,
	}, nil
}

// setKind tags a schema with its semantic kind. Re-tagging with the same kind
// is a no-op; a conflicting kind is fatal.
func (p *Pipeline) setKind(s *openapi3.Schema, k Kind) error {
	if prev, ok := p.kinds[s]; ok && prev != k {
		return fmt.Errorf("schema already tagged %s, cannot re-tag as %s", prev, k)
	}
	p.kinds[s] = k
	return nil
}

// register inserts schema into the shared type table under name and returns a
// reference to the new entry. Last write wins on collision: names derive from
// the operation id and role, so a collision is a re-registration of the same
// slot, and that is intentional.
func (p *Pipeline) register(name string, schema *openapi3.SchemaRef) *openapi3.SchemaRef {
	p.doc.Components.Schemas[name] = schema
	return &openapi3.SchemaRef{Ref: schemaRefPrefix + name, Value: schema.Value}
}

func (p *Pipeline) tableNames() []string {
	names := make([]string, 0, len(p.doc.Components.Schemas))
	for name := range p.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

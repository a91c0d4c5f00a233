package spec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const paramRefPrefix = "#/components/parameters/"

// resolveParameter is the reference-resolver boundary. The loader leaves the
// resolved target on Value; the shared parameters table is the by-name
// fallback for refs the loader could not attach.
func resolveParameter(doc *openapi3.T, ref *openapi3.ParameterRef) (*openapi3.Parameter, error) {
	if ref == nil {
		return nil, fmt.Errorf("nil parameter")
	}
	if ref.Value != nil {
		return ref.Value, nil
	}
	name := strings.TrimPrefix(ref.Ref, paramRefPrefix)
	if doc.Components != nil {
		if target, ok := doc.Components.Parameters[name]; ok && target.Value != nil {
			return target.Value, nil
		}
	}
	return nil, fmt.Errorf("unresolved parameter ref %q", ref.Ref)
}

// paramGroups holds the per-locus accumulator schemas built by the grouper.
// Either may be nil when the operation declares no parameters at that locus.
type paramGroups struct {
	path  *openapi3.Schema
	query *openapi3.Schema
}

// groupParameters groups an operation's declared parameters by locus into
// anonymous object schemas. Loci other than path and query are fatal: the
// device API never uses header or cookie parameters, and a new locus means
// the pipeline's assumptions no longer hold.
func groupParameters(doc *openapi3.T, op *Operation) (*paramGroups, error) {
	byLocus := map[string]*openapi3.Schema{}

	for _, ref := range op.Op.Parameters {
		param, err := resolveParameter(doc, ref)
		if err != nil {
			return nil, err
		}
		acc := byLocus[param.In]
		if acc == nil {
			acc = &openapi3.Schema{Type: "object", Properties: openapi3.Schemas{}}
			byLocus[param.In] = acc
		}
		prop := param.Schema
		if prop == nil {
			return nil, fmt.Errorf("parameter %q has no schema", param.Name)
		}
		if prop.Ref == "" && prop.Value != nil && prop.Value.Description == "" {
			prop.Value.Description = param.Description
		}
		acc.Properties[param.Name] = prop
		if param.Required {
			acc.Required = append(acc.Required, param.Name)
		}
	}

	groups := &paramGroups{path: byLocus["path"], query: byLocus["query"]}
	delete(byLocus, "path")
	delete(byLocus, "query")
	if len(byLocus) > 0 {
		loci := make([]string, 0, len(byLocus))
		for in := range byLocus {
			loci = append(loci, in)
		}
		sort.Strings(loci)
		return nil, fmt.Errorf("unsupported parameter locus %q", loci[0])
	}
	return groups, nil
}

package spec

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// methodOrder is the fixed HTTP method order. It matters: it fixes insertion
// order into the shared type table and therefore the naming order in
// duplicate-shape diagnostics.
var methodOrder = []struct {
	name string
	get  func(*openapi3.PathItem) *openapi3.Operation
}{
	{"get", func(it *openapi3.PathItem) *openapi3.Operation { return it.Get }},
	{"put", func(it *openapi3.PathItem) *openapi3.Operation { return it.Put }},
	{"post", func(it *openapi3.PathItem) *openapi3.Operation { return it.Post }},
	{"delete", func(it *openapi3.PathItem) *openapi3.Operation { return it.Delete }},
	{"patch", func(it *openapi3.PathItem) *openapi3.Operation { return it.Patch }},
	{"head", func(it *openapi3.PathItem) *openapi3.Operation { return it.Head }},
	{"options", func(it *openapi3.PathItem) *openapi3.Operation { return it.Options }},
	{"trace", func(it *openapi3.PathItem) *openapi3.Operation { return it.Trace }},
}

func isPlaceholder(seg string) bool {
	return strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

// PathID derives the stable path token: split on "/", drop empty and
// placeholder segments, join with "_". "/telescope/{device_number}/connected"
// becomes "telescope_connected".
func PathID(path string) string {
	var kept []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || isPlaceholder(seg) {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, "_")
}

// groupToken returns the device-group token of a path: its first segment, or
// "*" when the path is parameterized over the device type.
func groupToken(path string) string {
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if isPlaceholder(seg) {
			return "*"
		}
		return seg
	}
	return ""
}

// subPathToken returns the trailing action token of a path.
func subPathToken(path string) string {
	segs := strings.Split(path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" && !isPlaceholder(segs[i]) {
			return segs[i]
		}
	}
	return ""
}

// Enumerate walks the document's path/method matrix and returns the flat
// operation sequence: sorted path order, then fixed method order.
func Enumerate(doc *openapi3.T) []*Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []*Operation
	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		pathID := PathID(p)
		for _, m := range methodOrder {
			op := m.get(item)
			if op == nil {
				continue
			}
			out = append(out, &Operation{
				Path:    p,
				Method:  m.name,
				ID:      m.name + "_" + pathID,
				Group:   groupToken(p),
				SubPath: subPathToken(p),
				Op:      op,
			})
		}
	}
	return out
}

// Package docs builds the canonical method-name lookup from the ASCOM member
// documentation text. Generated identifiers must match that pre-existing
// naming convention, so a path with no documented member name is a fatal
// drift between the naming source and the device API description.
package docs

import (
	"fmt"
	"regexp"
	"strings"
)

// wildcardGroup covers device-type-parameterized paths: members documented on
// the generic device interface apply to every device group.
const wildcardGroup = "*"

var (
	// deviceScoped matches members documented on a concrete device type,
	// e.g. "Telescope.SlewToTargetAsync".
	deviceScoped = regexp.MustCompile(`\b([A-Z][A-Za-z0-9]*)\.([A-Z][A-Za-z0-9]*)\b`)
	// deviceGeneric matches members documented on the common device
	// interface, e.g. "IAscomDevice.Connected".
	deviceGeneric = regexp.MustCompile(`\bIAscomDevice\.([A-Z][A-Za-z0-9]*)\b`)
)

const genericInterface = "IAscomDevice"

// Names maps a device group and sub-path to the canonical member name.
// Lookups are case-insensitive on both tokens.
type Names struct {
	groups map[string]map[string]string
}

// Parse scans the raw documentation text for the two member patterns and
// builds the lookup. Later mentions of the same member are harmless
// re-assignments of the same name.
func Parse(text string) *Names {
	n := &Names{groups: map[string]map[string]string{}}
	for _, m := range deviceGeneric.FindAllStringSubmatch(text, -1) {
		n.add(wildcardGroup, m[1])
	}
	for _, m := range deviceScoped.FindAllStringSubmatch(text, -1) {
		if m[1] == genericInterface {
			continue
		}
		n.add(m[1], m[2])
	}
	return n
}

func (n *Names) add(group, member string) {
	key := strings.ToLower(group)
	if n.groups[key] == nil {
		n.groups[key] = map[string]string{}
	}
	n.groups[key][strings.ToLower(member)] = member
}

// Resolve returns the canonical member name for a device group and sub-path.
func (n *Names) Resolve(group, subPath string) (string, error) {
	members, ok := n.groups[strings.ToLower(group)]
	if !ok {
		return "", fmt.Errorf("no canonical names documented for device group %q", group)
	}
	name, ok := members[strings.ToLower(subPath)]
	if !ok {
		return "", fmt.Errorf("no canonical name documented for %q in device group %q", subPath, group)
	}
	return name, nil
}

// Len reports how many canonical names were extracted, across all groups.
func (n *Names) Len() int {
	total := 0
	for _, members := range n.groups {
		total += len(members)
	}
	return total
}

package docs

import (
	"strings"
	"testing"
)

const memberText = `
The Telescope interface:
  Telescope.Connected reflects the link state.
  Telescope.SlewToTargetAsync starts a slew.
The Camera interface:
  Camera.StartExposure begins an exposure.
Members common to every device type:
  IAscomDevice.Action invokes a device-specific action.
  IAscomDevice.Connected reflects the link state.
`

func TestParseAndResolve(t *testing.T) {
	names := Parse(memberText)

	cases := []struct {
		group, subPath, want string
	}{
		{"telescope", "connected", "Connected"},
		{"Telescope", "SLEWTOTARGETASYNC", "SlewToTargetAsync"},
		{"camera", "startexposure", "StartExposure"},
		{"*", "action", "Action"},
		{"*", "connected", "Connected"},
	}
	for _, tc := range cases {
		got, err := names.Resolve(tc.group, tc.subPath)
		if err != nil {
			t.Errorf("Resolve(%q, %q): %v", tc.group, tc.subPath, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.group, tc.subPath, got, tc.want)
		}
	}

	if got := names.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestResolveUnknownSubPath(t *testing.T) {
	names := Parse(memberText)

	_, err := names.Resolve("telescope", "parkasync")
	if err == nil {
		t.Fatal("expected failure for undocumented sub-path")
	}
	if !strings.Contains(err.Error(), "parkasync") || !strings.Contains(err.Error(), "telescope") {
		t.Errorf("error must name the sub-path and group, got: %v", err)
	}
}

func TestResolveUnknownGroup(t *testing.T) {
	names := Parse(memberText)

	if _, err := names.Resolve("dome", "slewing"); err == nil {
		t.Fatal("expected failure for undocumented device group")
	}
}

func TestGenericMembersDoNotLeakIntoGroups(t *testing.T) {
	names := Parse(memberText)

	if _, err := names.Resolve("iascomdevice", "action"); err == nil {
		t.Error("the generic interface must map to the wildcard group only")
	}
}

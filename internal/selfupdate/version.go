package selfupdate

import (
	"strings"

	"golang.org/x/mod/semver"
)

// DevelVersion is what the Go toolchain records for builds from a local checkout
const DevelVersion = "(devel)"

// canonicalVersion adds the "v" prefix semver expects; "1.2.3" -> "v1.2.3"
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// CompareVersions compares two Go module versions, pseudo-versions included.
// Build metadata such as "+incompatible" is ignored and an invalid version
// sorts before every valid one.
// Returns: -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func CompareVersions(v1, v2 string) int {
	return semver.Compare(canonicalVersion(v1), canonicalVersion(v2))
}

package acquire

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ReleaseRef returns the tag a tool build pins its template to: "v" plus the
// build's semantic version. Development builds ("dev", commit hashes) return
// "" so the remote's default branch is used.
func ReleaseRef(toolVersion string) string {
	v, err := parseSemver(toolVersion)
	if err != nil {
		return ""
	}
	return "v" + v.String()
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.StrictNewVersion(version)
}

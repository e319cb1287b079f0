// Package naming derives generator-facing names from Kubernetes kinds and Go
// package paths: version tokens, import aliases and generated file names.
package naming

import (
	"regexp"
	"strings"
)

var versionRegex = regexp.MustCompile(`^v\d+((alpha|beta|rc)\d+)?$`)

// IsVersionToken reports whether s is a Kubernetes API version such as v1,
// v2beta1 or v10rc2.
func IsVersionToken(s string) bool {
	return versionRegex.MatchString(s)
}

// VersionFromPackage returns the version segment closest to the end of pkg,
// or an empty string when pkg carries no version.
func VersionFromPackage(pkg string) string {
	if pkg == "" {
		return ""
	}
	segments := strings.Split(pkg, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if IsVersionToken(segments[i]) {
			return segments[i]
		}
	}
	return ""
}

package naming

import "strings"

const (
	// UndefinedAlias is returned by Alias when no package is given.
	UndefinedAlias = "undefined"

	// DefaultPackageName is the short package name of the generated module root.
	DefaultPackageName = "main"
)

// Alias returns the import alias used for pkg in generated code.
//
// A trailing version segment is folded together with its parent so that
// k8s.io/api/apps/v1 and k8s.io/api/core/v1 become appsv1 and corev1 instead
// of both being imported as v1.
func Alias(pkg string) string {
	if pkg == "" {
		return UndefinedAlias
	}
	s := strings.Split(pkg, "/")
	switch len(s) {
	case 1:
		return pkg
	case 2:
		return s[1]
	}
	last := s[len(s)-1]
	if IsVersionToken(last) {
		return s[len(s)-2] + last
	}
	return last
}

// ShortPackageName returns the Go package name for pkg. Unlike Alias it never
// folds the version into the name.
func ShortPackageName(pkg string) string {
	if pkg == "" {
		return DefaultPackageName
	}
	return pkg[strings.LastIndex(pkg, "/")+1:]
}

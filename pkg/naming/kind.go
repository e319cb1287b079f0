package naming

import "strings"

const (
	// UnknownType replaces an empty kind in generated names.
	UnknownType = "unknowntype"

	// DeepCopySuffix is appended to the lower-cased kind of every generated
	// deepcopy file.
	DeepCopySuffix = "_gen.deepcopy.go"
)

// LowerKind lower-cases kind for use in file and variable names.
func LowerKind(kind string) string {
	if lower := strings.ToLower(kind); lower != "" {
		return lower
	}
	return UnknownType
}

// FileNameFor returns the name of the deepcopy file generated for kind.
func FileNameFor(kind string) string {
	return LowerKind(kind) + DeepCopySuffix
}

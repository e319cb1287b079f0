package generation

import (
	"path"
	"strings"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/naming"
)

// NewDescriptor builds the descriptor of the deepcopy file for r inside module.
// Types outside module cannot be generated and yield an INVALID_INPUT error.
func NewDescriptor(r ResolvedResource, module string) (GenerationDescriptor, error) {
	d := GenerationDescriptor{
		Kind:     r.Kind,
		Package:  r.Package,
		FileName: naming.FileNameFor(r.Kind),
		Template: r.Template,
	}

	dir, err := relativeDir(r.Package, module)
	if err != nil {
		return GenerationDescriptor{}, err
	}
	d.Path = path.Join(dir, d.FileName)
	return d, nil
}

// relativeDir returns the directory of pkg relative to the module root
func relativeDir(pkg, module string) (string, error) {
	switch {
	case pkg == "" || pkg == module:
		return "", nil
	case module != "" && strings.HasPrefix(pkg, module+"/"):
		return strings.TrimPrefix(pkg, module+"/"), nil
	}
	return "", errors.ValidationError("package is outside of the generated module").
		WithContext("package", pkg).
		WithContext("module", module)
}

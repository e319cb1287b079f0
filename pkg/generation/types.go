// Package generation turns selected resources into the inputs of a source
// generator: resolved identities, import lists and per-file descriptors.
package generation

import (
	"fmt"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

// ResolvedResource is a Resource with every identity field filled in plus the
// names a generator needs to reference its Go type
type ResolvedResource struct {
	registry.Resource

	APIVersion string `json:"apiVersion"`
	LowerKind  string `json:"lowerKind"`
	Alias      string `json:"alias,omitempty"`

	// GoType is Kind for types in the generated module, alias.Kind otherwise
	GoType string `json:"goType"`

	// Local is true when the Go type lives in the generated module
	Local bool `json:"local"`
}

// GenerationDescriptor is handed to the external code generator, one per
// generated file. Code is filled in by the generator.
type GenerationDescriptor struct {
	Kind     string            `json:"kind"`
	Package  string            `json:"package,omitempty"`
	FileName string            `json:"fileName"`
	Path     string            `json:"path"`
	Template registry.Template `json:"-"`
	Code     string            `json:"code,omitempty"`
}

// Import is one entry of the generated import block
type Import struct {
	Alias   string `json:"alias"`
	Package string `json:"package"`
}

// String renders the import spec, e.g. appsv1 "k8s.io/api/apps/v1"
func (i Import) String() string {
	return fmt.Sprintf("%s %q", i.Alias, i.Package)
}

// Plan is everything a generator needs for one batch of resources
type Plan struct {
	Module      string                 `json:"module"`
	PackageName string                 `json:"packageName"`
	Resources   []ResolvedResource     `json:"resources"`
	Imports     []Import               `json:"imports"`
	Descriptors []GenerationDescriptor `json:"descriptors"`
}

// Options configures a Planner
type Options struct {
	// Module is the Go module path of the generated code
	Module string

	// Registry answers scope questions for resources that leave
	// isNamespaced unset. Defaults to the official registry.
	Registry registry.Registry
}

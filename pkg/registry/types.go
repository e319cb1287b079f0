package registry

import "strings"

// Template selects which generation templates apply to a resource
type Template int8

const (
	TemplateNone Template = iota
	TemplateDefinition
	TemplateDeepCopy
	TemplateBoth
)

var templateNames = map[Template]string{
	TemplateNone:       "None",
	TemplateDefinition: "Definition",
	TemplateDeepCopy:   "DeepCopy",
	TemplateBoth:       "Both",
}

// String returns the name used for t in function input
func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return templateNames[TemplateNone]
}

// ParseTemplate converts a template name into a Template. Names are matched
// case-insensitively; ok is false for unknown names.
func ParseTemplate(name string) (t Template, ok bool) {
	for t, n := range templateNames {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return TemplateNone, false
}

// GeneratesDefinition reports whether the type definition is generated
func (t Template) GeneratesDefinition() bool {
	return t == TemplateDefinition || t == TemplateBoth
}

// GeneratesDeepCopy reports whether deepcopy functions are generated
func (t Template) GeneratesDeepCopy() bool {
	return t == TemplateDeepCopy || t == TemplateBoth
}

// Resource describes one API resource, either an official builtin or a
// user-declared custom resource
type Resource struct {
	Kind    string `json:"kind"`
	Group   string `json:"group,omitempty"`
	Version string `json:"version,omitempty"`

	// Package is the Go package path hosting the type, e.g. k8s.io/api/apps/v1
	Package string `json:"package,omitempty"`

	Template         Template `json:"template,omitempty"`
	IsCustomResource bool     `json:"isCustomResource,omitempty"`

	// IsNamespaced is nil when the scope is unknown
	IsNamespaced *bool `json:"isNamespaced,omitempty"`
}

// Namespaced reports whether instances of r are namespace scoped. An unknown
// scope is treated as namespaced.
func (r Resource) Namespaced() bool {
	return r.IsNamespaced == nil || *r.IsNamespaced
}

// Registry defines the interface for resource type registry
type Registry interface {
	// GetResourceType returns the resource for an apiVersion and kind
	GetResourceType(apiVersion, kind string) (*Resource, error)


	// IsNamespaced returns whether a resource type is namespaced
	IsNamespaced(apiVersion, kind string) (bool, error)
}

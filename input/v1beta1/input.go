// Package v1beta1 contains the input type for the KubeCore Kind Registry Function
// +kubebuilder:object:generate=true
// +groupName=registry.fn.crossplane.io
// +versionName=v1beta1
package v1beta1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// Input selects the resources a generator should emit code for
// +kubebuilder:object:root=true
// +kubebuilder:storageversion
// +kubebuilder:resource:categories=crossplane
type Input struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Module is the Go module path of the generated code
	// +optional
	Module string `json:"module,omitempty"`

	// Resources are the selected official and custom resources
	// +optional
	Resources []Resource `json:"resources,omitempty"`

	// IncludeOfficial adds every official resource to the selection
	// +kubebuilder:default=false
	IncludeOfficial *bool `json:"includeOfficial,omitempty"`

	// CustomResourceDefinitions are inline CRD manifests whose storage
	// versions are added to the selection as custom resources
	// +kubebuilder:pruning:PreserveUnknownFields
	// +optional
	CustomResourceDefinitions []runtime.RawExtension `json:"customResourceDefinitions,omitempty"`

	// DefaultTemplate applies to imported CRDs and to custom resources that
	// do not set a template
	// +kubebuilder:validation:Enum=None;Definition;DeepCopy;Both
	// +optional
	DefaultTemplate *string `json:"defaultTemplate,omitempty"`

	// ContextKey is the pipeline context key the plan is written to
	// +optional
	ContextKey *string `json:"contextKey,omitempty"`
}

// Resource identifies one resource to generate for
type Resource struct {
	// Kind of the resource (e.g., "Pod", "Widget")
	// +kubebuilder:validation:Required
	Kind string `json:"kind"`

	// Group is the short API group, e.g. "apps"; resolved for official kinds
	// +optional
	Group string `json:"group,omitempty"`

	// Version such as "v1" or "v1beta1"; taken from package when empty
	// +optional
	Version string `json:"version,omitempty"`

	// Package is the Go package path of the type
	// +optional
	Package string `json:"package,omitempty"`

	// Template selects the generated files of a custom resource
	// +kubebuilder:validation:Enum=None;Definition;DeepCopy;Both
	// +optional
	Template string `json:"template,omitempty"`

	// IsCustomResource marks resources outside the official registry
	// +kubebuilder:default=false
	IsCustomResource bool `json:"isCustomResource,omitempty"`

	// IsNamespaced overrides the scope of the resource
	// +optional
	IsNamespaced *bool `json:"isNamespaced,omitempty"`
}

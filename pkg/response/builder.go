package response

import (
	"encoding/json"

	"google.golang.org/protobuf/types/known/structpb"

	fnv1 "github.com/crossplane/function-sdk-go/proto/v1"
	"github.com/crossplane/function-sdk-go/response"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/generation"
)

// Builder provides methods to build structured responses for Go templates
type Builder interface {
	// BuildContext creates the context data structure for templates
	BuildContext(plan *generation.Plan) (map[string]interface{}, error)

	// SetContext sets the context in the Crossplane response
	SetContext(rsp *fnv1.RunFunctionResponse, key string, plan *generation.Plan) error
}

// DefaultBuilder implements the Builder interface
type DefaultBuilder struct{}

// NewDefaultBuilder creates a new default response builder
func NewDefaultBuilder() *DefaultBuilder {
	return &DefaultBuilder{}
}

// BuildContext creates the context data structure for templates
func (b *DefaultBuilder) BuildContext(plan *generation.Plan) (map[string]interface{}, error) {
	if plan == nil {
		return nil, errors.ValidationError("plan cannot be nil")
	}

	context := map[string]interface{}{
		"module":      plan.Module,
		"packageName": plan.PackageName,
	}

	resources := make([]interface{}, 0, len(plan.Resources))
	byGroup := make(map[string]interface{})
	custom := 0
	for _, r := range plan.Resources {
		resourceData := b.buildResourceContext(r)
		resources = append(resources, resourceData)

		kinds, _ := byGroup[r.Group].([]interface{})
		byGroup[r.Group] = append(kinds, r.Kind)

		if r.IsCustomResource {
			custom++
		}
	}
	context["resources"] = resources
	context["resourcesByGroup"] = byGroup

	imports := make([]interface{}, 0, len(plan.Imports))
	for _, imp := range plan.Imports {
		imports = append(imports, map[string]interface{}{
			"alias":   imp.Alias,
			"package": imp.Package,
			"spec":    imp.String(),
		})
	}
	context["imports"] = imports

	descriptors := make([]interface{}, 0, len(plan.Descriptors))
	for _, d := range plan.Descriptors {
		descriptors = append(descriptors, map[string]interface{}{
			"kind":       d.Kind,
			"package":    d.Package,
			"fileName":   d.FileName,
			"path":       d.Path,
			"template":   d.Template.String(),
			"definition": d.Template.GeneratesDefinition(),
			"deepCopy":   d.Template.GeneratesDeepCopy(),
			"code":       d.Code,
		})
	}
	context["descriptors"] = descriptors

	context["summary"] = map[string]interface{}{
		"resources":   len(plan.Resources),
		"official":    len(plan.Resources) - custom,
		"custom":      custom,
		"imports":     len(plan.Imports),
		"descriptors": len(plan.Descriptors),
	}

	return context, nil
}

// SetContext sets the context in the Crossplane response
func (b *DefaultBuilder) SetContext(rsp *fnv1.RunFunctionResponse, key string, plan *generation.Plan) error {
	context, err := b.BuildContext(plan)
	if err != nil {
		return errors.Wrap(err, "failed to build context")
	}

	// Convert to JSON and back for clean marshaling
	contextJSON, err := json.Marshal(context)
	if err != nil {
		return errors.Wrap(err, "failed to marshal context to JSON")
	}

	var contextMap map[string]interface{}
	if err := json.Unmarshal(contextJSON, &contextMap); err != nil {
		return errors.Wrap(err, "failed to unmarshal context from JSON")
	}

	contextStruct, err := structpb.NewStruct(contextMap)
	if err != nil {
		return errors.Wrap(err, "failed to create structured context")
	}
	response.SetContextKey(rsp, key, structpb.NewStructValue(contextStruct))

	return nil
}

// buildResourceContext creates a context structure for a single resource
func (b *DefaultBuilder) buildResourceContext(r generation.ResolvedResource) map[string]interface{} {
	context := map[string]interface{}{
		"kind":             r.Kind,
		"group":            r.Group,
		"version":          r.Version,
		"apiVersion":       r.APIVersion,
		"package":          r.Package,
		"alias":            r.Alias,
		"lowerKind":        r.LowerKind,
		"goType":           r.GoType,
		"local":            r.Local,
		"template":         r.Template.String(),
		"isCustomResource": r.IsCustomResource,
	}

	if r.IsNamespaced != nil {
		context["isNamespaced"] = *r.IsNamespaced
	}

	return context
}

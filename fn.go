package main

import (
	"context"
	"fmt"

	"github.com/crossplane/function-sdk-go/logging"
	fnv1 "github.com/crossplane/function-sdk-go/proto/v1"
	"github.com/crossplane/function-sdk-go/request"
	"github.com/crossplane/function-sdk-go/response"

	"github.com/crossplane/function-kubecore-kind-registry/input/v1beta1"
	"github.com/crossplane/function-kubecore-kind-registry/internal/cache"
	"github.com/crossplane/function-kubecore-kind-registry/internal/config"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/crd"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/generation"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
	responsebuilder "github.com/crossplane/function-kubecore-kind-registry/pkg/response"
)

// Function implements the KubeCore Kind Registry Function
type Function struct {
	fnv1.UnimplementedFunctionRunnerServiceServer
	log logging.Logger

	config          *config.Config
	crdCache        *cache.MemoryCache
	responseBuilder responsebuilder.Builder
}

// NewFunction creates a new function instance
func NewFunction(log logging.Logger) *Function {
	cfg := config.New()
	return &Function{
		log:             log,
		config:          cfg,
		crdCache:        cache.NewMemoryCache(cfg.CRDCacheTTL),
		responseBuilder: responsebuilder.NewDefaultBuilder(),
	}
}

// RunFunction resolves the selected resources and writes the generation plan
// into the pipeline context
func (f *Function) RunFunction(ctx context.Context, req *fnv1.RunFunctionRequest) (*fnv1.RunFunctionResponse, error) {
	f.log.Info("Running function", "tag", req.GetMeta().GetTag())

	rsp := response.To(req, response.DefaultTTL)

	in := &v1beta1.Input{}
	if err := request.GetInput(req, in); err != nil {
		response.Fatal(rsp, errors.Wrap(err, "cannot get function input"))
		return rsp, nil
	}

	module := in.Module
	if module == "" {
		module = f.config.DefaultModule
	}

	defaultTemplate := f.config.DefaultTemplate
	if in.DefaultTemplate != nil {
		t, ok := registry.ParseTemplate(*in.DefaultTemplate)
		if !ok {
			response.Fatal(rsp, errors.ValidationError(fmt.Sprintf("unknown defaultTemplate %q", *in.DefaultTemplate)))
			return rsp, nil
		}
		defaultTemplate = t
	}

	reg := registry.NewEmbeddedRegistry()
	selections, err := f.selectResources(ctx, in, module, defaultTemplate, reg)
	if err != nil {
		response.Fatal(rsp, errors.Wrap(err, "cannot select resources"))
		return rsp, nil
	}

	if len(selections) == 0 {
		f.log.Info("No resources selected")
		response.Normal(rsp, "No resources selected - nothing to generate")
		return rsp, nil
	}

	planner := generation.NewPlanner(f.log, generation.Options{Module: module, Registry: reg})
	plan, err := planner.Plan(selections)
	if err != nil {
		response.Fatal(rsp, errors.Wrap(err, "cannot plan generation"))
		return rsp, nil
	}

	key := f.config.ContextKey
	if in.ContextKey != nil && *in.ContextKey != "" {
		key = *in.ContextKey
	}
	if err := f.responseBuilder.SetContext(rsp, key, plan); err != nil {
		response.Fatal(rsp, errors.Wrap(err, "failed to build response context"))
		return rsp, nil
	}

	f.log.Info("Generation plan written to context",
		"contextKey", key,
		"module", plan.Module,
		"resources", len(plan.Resources),
		"imports", len(plan.Imports),
		"descriptors", len(plan.Descriptors))

	response.ConditionTrue(rsp, "PlanReady", "GenerationPlanned").
		WithMessage(fmt.Sprintf("Resolved %d resources into %d imports and %d generated files",
			len(plan.Resources), len(plan.Imports), len(plan.Descriptors))).
		TargetCompositeAndClaim()
	response.Normalf(rsp, "Resolved %d resources for module %s", len(plan.Resources), plan.Module)

	return rsp, nil
}

// selectResources collects official, explicitly selected and CRD-imported
// resources. An explicit selection of an official kind replaces its catalog
// entry. Imported CRDs are also registered in reg so their scope resolves.
func (f *Function) selectResources(ctx context.Context, in *v1beta1.Input, module string, defaultTemplate registry.Template, reg *registry.EmbeddedRegistry) ([]registry.Resource, error) {
	var explicit []registry.Resource
	explicitKinds := map[string]bool{}
	for i, r := range in.Resources {
		res, err := toResource(r, defaultTemplate)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid resources[%d]", i)
		}
		if !res.IsCustomResource {
			explicitKinds[res.Kind] = true
		}
		explicit = append(explicit, res)
	}

	var selections []registry.Resource
	if in.IncludeOfficial != nil && *in.IncludeOfficial {
		for _, r := range registry.All() {
			if explicitKinds[r.Kind] {
				f.log.Debug("Explicit selection replaces official resource", "kind", r.Kind)
				continue
			}
			selections = append(selections, r)
		}
	}
	selections = append(selections, explicit...)

	imported, err := f.importCRDs(ctx, in, module, defaultTemplate)
	if err != nil {
		return nil, err
	}
	for _, r := range imported {
		reg.RegisterType(r)
	}
	return append(selections, imported...), nil
}

// importCRDs decodes the inline CRDs that are not cached yet and returns the
// imported resources in input order.
func (f *Function) importCRDs(ctx context.Context, in *v1beta1.Input, module string, defaultTemplate registry.Template) ([]registry.Resource, error) {
	perManifest := make([][]registry.Resource, len(in.CustomResourceDefinitions))
	keys := make([]string, len(in.CustomResourceDefinitions))

	var missing []int
	var manifests []crd.Manifest
	for i, raw := range in.CustomResourceDefinitions {
		// Cached imports depend on the module and template as well as the manifest.
		keys[i] = cache.Key(append([]byte(module+"\x00"+defaultTemplate.String()+"\x00"), raw.Raw...))
		if cached, ok := f.crdCache.Get(keys[i]); ok {
			f.log.Debug("Using cached CRD import", "index", i, "resources", len(cached))
			perManifest[i] = cached
			continue
		}
		missing = append(missing, i)
		manifests = append(manifests, crd.Manifest{
			Source: fmt.Sprintf("customResourceDefinitions[%d]", i),
			Data:   raw.Raw,
		})
	}

	if len(manifests) > 0 {
		importer := crd.NewImporter(f.log, crd.Options{
			Module:      module,
			Template:    defaultTemplate,
			Concurrency: f.config.CRDConcurrency,
		})
		decoded, err := importer.DecodeAll(ctx, manifests)
		if err != nil {
			return nil, err
		}
		for j, i := range missing {
			f.crdCache.Set(keys[i], decoded[j])
			perManifest[i] = decoded[j]
		}
	}

	var imported []registry.Resource
	for _, r := range perManifest {
		imported = append(imported, r...)
	}
	return imported, nil
}

func toResource(r v1beta1.Resource, defaultTemplate registry.Template) (registry.Resource, error) {
	res := registry.Resource{
		Kind:             r.Kind,
		Group:            r.Group,
		Version:          r.Version,
		Package:          r.Package,
		IsCustomResource: r.IsCustomResource,
		IsNamespaced:     r.IsNamespaced,
	}

	switch {
	case r.Template != "":
		t, ok := registry.ParseTemplate(r.Template)
		if !ok {
			return registry.Resource{}, errors.ValidationError(fmt.Sprintf("unknown template %q", r.Template)).
				WithResource(errors.ResourceRef{Kind: r.Kind, Group: r.Group})
		}
		res.Template = t
	case r.IsCustomResource:
		res.Template = defaultTemplate
	}
	return res, nil
}

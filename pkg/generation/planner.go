package generation

import (
	"slices"
	"sort"
	"strings"

	"github.com/crossplane/function-sdk-go/logging"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/naming"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

const defaultVersion = "v1"

const (
	msgNoVersionInPackage  = "no version information in package"
	msgUseDefaultVersion   = `using default version "v1" as resource version`
	msgInconsistentVersion = "version information in package is inconsistent with resource version"
	msgUnknownGroupVersion = "version is not known to be served by the group"
	msgIncompatibility     = "this may cause incompatibility"
	msgAliasCollision      = "import alias is used by more than one package"
)

// Planner resolves selected resources and assembles generation plans
type Planner struct {
	log      logging.Logger
	module   string
	registry registry.Registry
}

// NewPlanner creates a planner for the given options
func NewPlanner(log logging.Logger, opts Options) *Planner {
	reg := opts.Registry
	if reg == nil {
		reg = registry.NewEmbeddedRegistry()
	}
	return &Planner{
		log:      log,
		module:   opts.Module,
		registry: reg,
	}
}

// Resolve fills in group, version and package of r and computes the names
// used to reference its Go type.
func (p *Planner) Resolve(r registry.Resource) (ResolvedResource, error) {
	if r.Kind == "" {
		return ResolvedResource{}, errors.ValidationError("kind is required")
	}

	var err error
	if r.IsCustomResource {
		err = p.resolveCustom(&r)
	} else {
		err = p.resolveBuiltin(&r)
	}
	if err != nil {
		return ResolvedResource{}, err
	}

	out := ResolvedResource{
		Resource:   r,
		APIVersion: registry.APIVersion(r),
		LowerKind:  naming.LowerKind(r.Kind),
	}
	if r.Package == "" || r.Package == p.module {
		out.Local = true
		out.GoType = r.Kind
	} else {
		out.Alias = naming.Alias(r.Package)
		out.GoType = out.Alias + "." + r.Kind
	}

	if out.IsNamespaced == nil {
		if namespaced, err := p.registry.IsNamespaced(out.APIVersion, r.Kind); err == nil {
			out.IsNamespaced = &namespaced
		}
	}
	return out, nil
}

func (p *Planner) resolveBuiltin(r *registry.Resource) error {
	known, found := registry.Lookup(r.Kind)
	if !found && r.Package == "" {
		return errors.UnknownKindError(r.Kind)
	}
	switch {
	case found && r.Group != "" && r.Group != known.Group:
		if r.Group != registry.SchemaGroup(known.Group) {
			return errors.KindGroupMismatchError(errors.ResourceRef{
				Kind:    r.Kind,
				Group:   r.Group,
				Version: r.Version,
				Package: r.Package,
			}, known.Group)
		}
		r.Group = known.Group
	case found:
		r.Group = known.Group
	case r.Group == "":
		r.Group = groupFromBuiltinPackage(r.Package)
	}

	emptyVersion, emptyPackage := r.Version == "", r.Package == ""
	switch {
	case emptyVersion && emptyPackage:
		r.Version = known.Version
		r.Package = known.Package
	case emptyPackage:
		if !slices.Contains(registry.GroupToVersions(r.Group), r.Version) {
			p.log.Info(msgUnknownGroupVersion, "kind", r.Kind, "group", r.Group, "version", r.Version)
		}
		r.Package = registry.BuiltinPackage(r.Group, r.Version)
	case emptyVersion:
		r.Version = p.versionFromPackage(r)
	default:
		p.checkVersion(r)
	}

	if r.IsNamespaced == nil && found {
		r.IsNamespaced = known.IsNamespaced
	}
	return nil
}

func (p *Planner) resolveCustom(r *registry.Resource) error {
	if registry.IsBuiltinGroup(r.Group) {
		return errors.InvalidGroupError(errors.ResourceRef{
			Kind:    r.Kind,
			Group:   r.Group,
			Version: r.Version,
			Package: r.Package,
		})
	}
	if r.Version == "" {
		r.Version = p.versionFromPackage(r)
		return nil
	}
	p.checkVersion(r)
	return nil
}

// versionFromPackage falls back to v1 when the package carries no version
func (p *Planner) versionFromPackage(r *registry.Resource) string {
	if v := naming.VersionFromPackage(r.Package); v != "" {
		return v
	}
	p.log.Info(msgNoVersionInPackage, "kind", r.Kind, "package", r.Package)
	p.log.Info(msgUseDefaultVersion, "kind", r.Kind, "note", msgIncompatibility)
	return defaultVersion
}

func (p *Planner) checkVersion(r *registry.Resource) {
	v := naming.VersionFromPackage(r.Package)
	if v != "" && v != r.Version {
		p.log.Info(msgInconsistentVersion,
			"kind", r.Kind,
			"packageVersion", v,
			"resourceVersion", r.Version,
			"note", msgIncompatibility)
	}
}

// Plan resolves every resource and derives the imports and descriptors of
// the batch. Descriptors are produced for custom resources whose template is
// not None.
func (p *Planner) Plan(resources []registry.Resource) (*Plan, error) {
	if len(resources) == 0 {
		return nil, errors.ValidationError("no resource to control")
	}

	plan := &Plan{
		Module:      p.module,
		PackageName: naming.ShortPackageName(p.module),
		Resources:   make([]ResolvedResource, 0, len(resources)),
	}

	aliases := map[string]string{}
	imports := sets.New[string]()
	paths := sets.New[string]()

	for i := range resources {
		resolved, err := p.Resolve(resources[i])
		if err != nil {
			return nil, errors.Wrapf(err, "cannot resolve resource %d", i)
		}
		plan.Resources = append(plan.Resources, resolved)

		if !resolved.Local && !imports.Has(resolved.Package) {
			imports.Insert(resolved.Package)
			if other, ok := aliases[resolved.Alias]; ok {
				p.log.Info(msgAliasCollision, "alias", resolved.Alias, "package", resolved.Package, "other", other)
			}
			aliases[resolved.Alias] = resolved.Package
			plan.Imports = append(plan.Imports, Import{Alias: resolved.Alias, Package: resolved.Package})
		}

		if !resolved.IsCustomResource || resolved.Template == registry.TemplateNone {
			continue
		}
		d, err := NewDescriptor(resolved, p.module)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot describe resource %s", resolved.Kind)
		}
		if paths.Has(d.Path) {
			return nil, errors.DuplicateFileError(d.Path, errors.ResourceRef{
				Kind:    resolved.Kind,
				Group:   resolved.Group,
				Version: resolved.Version,
				Package: resolved.Package,
			})
		}
		paths.Insert(d.Path)
		plan.Descriptors = append(plan.Descriptors, d)
	}

	sort.Slice(plan.Imports, func(i, j int) bool {
		return plan.Imports[i].Package < plan.Imports[j].Package
	})

	p.log.Debug("Generation plan assembled",
		"module", p.module,
		"resources", len(plan.Resources),
		"imports", len(plan.Imports),
		"descriptors", len(plan.Descriptors))
	return plan, nil
}

// groupFromBuiltinPackage returns the group segment of a k8s.io/api package
func groupFromBuiltinPackage(pkg string) string {
	rest, ok := strings.CutPrefix(pkg, "k8s.io/api/")
	if !ok {
		return ""
	}
	group, _, _ := strings.Cut(rest, "/")
	return group
}

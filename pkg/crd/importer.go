// Package crd converts CustomResourceDefinition manifests into custom
// resources for the generation planner. Manifests are read from local
// readers and files only.
package crd

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/crossplane/function-sdk-go/logging"
	"golang.org/x/sync/errgroup"
	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/util/yaml"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

const (
	// DefaultConcurrency bounds the number of manifests parsed at once
	DefaultConcurrency = 5

	crdKind          = "CustomResourceDefinition"
	decoderBufferLen = 4096
)

// Options configures an Importer
type Options struct {
	// Module is the Go module the custom types are generated into. Packages
	// are laid out as <module>/apis/<group prefix>/<version>.
	Module string

	// Template is assigned to every imported resource
	Template registry.Template

	// AllVersions imports every served version instead of the storage version
	AllVersions bool

	// Concurrency bounds parallel manifest parsing, DefaultConcurrency when zero
	Concurrency int
}

// Importer turns CRD manifests into custom resources
type Importer struct {
	log  logging.Logger
	opts Options
}

// NewImporter creates a new CRD importer
func NewImporter(log logging.Logger, opts Options) *Importer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Importer{log: log, opts: opts}
}

// FromCRD returns one custom resource per selected version of crd
func (i *Importer) FromCRD(crd *apiextv1.CustomResourceDefinition) ([]registry.Resource, error) {
	if crd.Spec.Names.Kind == "" || crd.Spec.Group == "" {
		return nil, errors.ValidationError("CustomResourceDefinition must set spec.group and spec.names.kind").
			WithContext("name", crd.Name)
	}

	namespaced := crd.Spec.Scope == apiextv1.NamespaceScoped
	var resources []registry.Resource
	for _, v := range crd.Spec.Versions {
		if !i.selected(v) {
			continue
		}
		scope := namespaced
		resources = append(resources, registry.Resource{
			Kind:             crd.Spec.Names.Kind,
			Group:            crd.Spec.Group,
			Version:          v.Name,
			Package:          i.packageFor(crd.Spec.Group, v.Name),
			Template:         i.opts.Template,
			IsCustomResource: true,
			IsNamespaced:     &scope,
		})
	}

	if len(resources) == 0 {
		return nil, errors.ValidationError("CustomResourceDefinition has no version to import").
			WithContext("name", crd.Name)
	}
	return resources, nil
}

func (i *Importer) selected(v apiextv1.CustomResourceDefinitionVersion) bool {
	if i.opts.AllVersions {
		return v.Served
	}
	return v.Storage
}

func (i *Importer) packageFor(group, version string) string {
	prefix, _, _ := strings.Cut(group, ".")
	if i.opts.Module == "" {
		return ""
	}
	return i.opts.Module + "/apis/" + prefix + "/" + version
}

// Decode reads a stream of YAML or JSON documents and imports every
// CustomResourceDefinition in it. Other kinds are skipped.
func (i *Importer) Decode(r io.Reader, source string) ([]registry.Resource, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(r, decoderBufferLen)

	var resources []registry.Resource
	for {
		crd := &apiextv1.CustomResourceDefinition{}
		if err := decoder.Decode(crd); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.InvalidManifestError(source, err)
		}
		if crd.Kind == "" && crd.Spec.Group == "" {
			continue
		}
		if crd.Kind != crdKind {
			i.log.Debug("Skipping document that is not a CustomResourceDefinition", "source", source, "kind", crd.Kind)
			continue
		}

		imported, err := i.FromCRD(crd)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot import %s from %s", crd.Name, source)
		}
		resources = append(resources, imported...)
	}

	i.log.Debug("Decoded CRD manifest", "source", source, "resources", len(resources))
	return resources, nil
}

// Manifest is a named CRD document stream
type Manifest struct {
	Source string
	Data   []byte
}

// DecodeAll decodes every manifest concurrently. The result keeps the order
// of manifests.
func (i *Importer) DecodeAll(ctx context.Context, manifests []Manifest) ([][]registry.Resource, error) {
	return i.fanOut(ctx, len(manifests), func(idx int) ([]registry.Resource, error) {
		return i.Decode(bytes.NewReader(manifests[idx].Data), manifests[idx].Source)
	})
}

// LoadFiles imports the CRDs of every file. Files are parsed concurrently and
// the result keeps the order of paths.
func (i *Importer) LoadFiles(ctx context.Context, paths []string) ([]registry.Resource, error) {
	perFile, err := i.fanOut(ctx, len(paths), func(idx int) ([]registry.Resource, error) {
		return i.loadFile(paths[idx])
	})
	if err != nil {
		return nil, err
	}

	var resources []registry.Resource
	for _, r := range perFile {
		resources = append(resources, r...)
	}
	i.log.Info("Loaded CRD manifests", "files", len(paths), "resources", len(resources))
	return resources, nil
}

// fanOut runs n imports with at most Concurrency in flight
func (i *Importer) fanOut(ctx context.Context, n int, load func(idx int) ([]registry.Resource, error)) ([][]registry.Resource, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.Concurrency)

	out := make([][]registry.Resource, n)
	for idx := 0; idx < n; idx++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			resources, err := load(idx)
			if err != nil {
				return err
			}
			out[idx] = resources
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (i *Importer) loadFile(path string) ([]registry.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	defer f.Close()

	return i.Decode(f, path)
}

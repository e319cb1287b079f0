package crd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crossplane/function-sdk-go/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

const widgetsCRD = `apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
spec:
  group: example.com
  names:
    kind: Widget
    plural: widgets
  scope: Namespaced
  versions:
  - name: v1alpha1
    served: true
    storage: false
  - name: v1
    served: true
    storage: true
`

const gadgetsCRD = `apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: gadgets.tools.example.com
spec:
  group: tools.example.com
  names:
    kind: Gadget
    plural: gadgets
  scope: Cluster
  versions:
  - name: v1beta1
    served: true
    storage: true
`

const configMap = `apiVersion: v1
kind: ConfigMap
metadata:
  name: unrelated
`

func newTestImporter(opts Options) *Importer {
	return NewImporter(logging.NewNopLogger(), opts)
}

func TestFromCRD(t *testing.T) {
	crd := &apiextv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{Name: "widgets.example.com"},
		Spec: apiextv1.CustomResourceDefinitionSpec{
			Group: "example.com",
			Names: apiextv1.CustomResourceDefinitionNames{Kind: "Widget"},
			Scope: apiextv1.ClusterScoped,
			Versions: []apiextv1.CustomResourceDefinitionVersion{
				{Name: "v1alpha1", Served: false},
				{Name: "v1beta1", Served: true},
				{Name: "v1", Served: true, Storage: true},
			},
		},
	}

	tests := []struct {
		name             string
		opts             Options
		expectedVersions []string
		expectedPackage  string
	}{
		{
			name:             "storage version only",
			opts:             Options{Module: "example.com/controller", Template: registry.TemplateDeepCopy},
			expectedVersions: []string{"v1"},
			expectedPackage:  "example.com/controller/apis/example/v1",
		},
		{
			name:             "all served versions",
			opts:             Options{Module: "example.com/controller", AllVersions: true},
			expectedVersions: []string{"v1beta1", "v1"},
			expectedPackage:  "example.com/controller/apis/example/v1",
		},
		{
			name:             "no module",
			opts:             Options{},
			expectedVersions: []string{"v1"},
			expectedPackage:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resources, err := newTestImporter(tt.opts).FromCRD(crd)
			require.NoError(t, err)

			var versions []string
			for _, r := range resources {
				versions = append(versions, r.Version)
				assert.Equal(t, "Widget", r.Kind)
				assert.Equal(t, "example.com", r.Group)
				assert.True(t, r.IsCustomResource)
				assert.Equal(t, tt.opts.Template, r.Template)
				require.NotNil(t, r.IsNamespaced)
				assert.False(t, *r.IsNamespaced)
			}
			assert.Equal(t, tt.expectedVersions, versions)
			assert.Equal(t, tt.expectedPackage, resources[len(resources)-1].Package)
		})
	}
}

func TestFromCRDInvalid(t *testing.T) {
	_, err := newTestImporter(Options{}).FromCRD(&apiextv1.CustomResourceDefinition{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidInput))

	_, err = newTestImporter(Options{}).FromCRD(&apiextv1.CustomResourceDefinition{
		Spec: apiextv1.CustomResourceDefinitionSpec{
			Group:    "example.com",
			Names:    apiextv1.CustomResourceDefinitionNames{Kind: "Widget"},
			Versions: []apiextv1.CustomResourceDefinitionVersion{{Name: "v1", Served: true}},
		},
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidInput))
}

func TestDecode(t *testing.T) {
	manifest := strings.Join([]string{widgetsCRD, configMap, gadgetsCRD}, "---\n")

	resources, err := newTestImporter(Options{Module: "example.com/controller"}).Decode(strings.NewReader(manifest), "bundle.yaml")
	require.NoError(t, err)
	require.Len(t, resources, 2)

	assert.Equal(t, "Widget", resources[0].Kind)
	assert.True(t, *resources[0].IsNamespaced)
	assert.Equal(t, "Gadget", resources[1].Kind)
	assert.Equal(t, "tools.example.com", resources[1].Group)
	assert.Equal(t, "example.com/controller/apis/tools/v1beta1", resources[1].Package)
	assert.False(t, *resources[1].IsNamespaced)
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"apiVersion":"apiextensions.k8s.io/v1","kind":"CustomResourceDefinition",` +
		`"metadata":{"name":"widgets.example.com"},"spec":{"group":"example.com","names":{"kind":"Widget"},` +
		`"scope":"Namespaced","versions":[{"name":"v1","served":true,"storage":true}]}}`

	resources, err := newTestImporter(Options{}).Decode(strings.NewReader(doc), "inline")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "v1", resources[0].Version)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := newTestImporter(Options{}).Decode(strings.NewReader("kind: [unterminated"), "broken.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidManifest))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	widgets := filepath.Join(dir, "widgets.yaml")
	gadgets := filepath.Join(dir, "gadgets.yaml")
	require.NoError(t, os.WriteFile(widgets, []byte(widgetsCRD), 0o600))
	require.NoError(t, os.WriteFile(gadgets, []byte(gadgetsCRD), 0o600))

	importer := newTestImporter(Options{Module: "example.com/controller", Concurrency: 1})
	resources, err := importer.LoadFiles(context.Background(), []string{gadgets, widgets})
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Gadget", resources[0].Kind)
	assert.Equal(t, "Widget", resources[1].Kind)

	_, err = importer.LoadFiles(context.Background(), []string{widgets, filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestDecodeAll(t *testing.T) {
	importer := newTestImporter(Options{Module: "example.com/controller", Concurrency: 2})
	manifests := []Manifest{
		{Source: "gadgets", Data: []byte(gadgetsCRD)},
		{Source: "config", Data: []byte(configMap)},
		{Source: "widgets", Data: []byte(widgetsCRD)},
	}

	got, err := importer.DecodeAll(context.Background(), manifests)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Len(t, got[0], 1)
	assert.Equal(t, "Gadget", got[0][0].Kind)
	assert.Empty(t, got[1])
	require.Len(t, got[2], 1)
	assert.Equal(t, "Widget", got[2][0].Kind)

	manifests[1].Data = []byte("kind: [unterminated")
	_, err = importer.DecodeAll(context.Background(), manifests)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrorCodeInvalidManifest))
}

func TestDecodeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestImporter(Options{}).DecodeAll(ctx, []Manifest{{Source: "a", Data: []byte(widgetsCRD)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestImporter(Options{}).LoadFiles(ctx, []string{"a.yaml", "b.yaml"})
	assert.ErrorIs(t, err, context.Canceled)
}

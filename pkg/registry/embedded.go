package registry

import (
	"fmt"
	"sync"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/errors"
)

// EmbeddedRegistry implements the Registry interface on top of the official
// resources. Custom resources registered on an instance stay local to it.
type EmbeddedRegistry struct {
	resourceTypes map[string]*Resource // key: "apiVersion/kind"
	mu            sync.RWMutex
}

// NewEmbeddedRegistry creates a new embedded registry holding the official resources
func NewEmbeddedRegistry() *EmbeddedRegistry {
	r := &EmbeddedRegistry{
		resourceTypes: make(map[string]*Resource),
	}

	for _, res := range All() {
		r.RegisterType(res)
	}
	return r
}

// GetResourceType returns the resource for an apiVersion and kind
func (r *EmbeddedRegistry) GetResourceType(apiVersion, kind string) (*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, exists := r.resourceTypes[key(apiVersion, kind)]
	if !exists {
		return nil, errors.ResourceNotFoundError(errors.ResourceRef{Kind: kind}).
			WithContext("apiVersion", apiVersion)
	}

	out := rt.clone()
	return &out, nil
}

// IsNamespaced returns whether a resource type is namespaced
func (r *EmbeddedRegistry) IsNamespaced(apiVersion, kind string) (bool, error) {
	rt, err := r.GetResourceType(apiVersion, kind)
	if err != nil {
		return false, err
	}
	return rt.Namespaced(), nil
}

// RegisterType adds a resource type to this registry instance
func (r *EmbeddedRegistry) RegisterType(rt Resource) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := rt.clone()
	r.resourceTypes[key(APIVersion(rt), rt.Kind)] = &stored
}

func key(apiVersion, kind string) string {
	return fmt.Sprintf("%s/%s", apiVersion, kind)
}

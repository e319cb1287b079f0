package registry

import (
	"slices"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// UndefinedGroup is returned by GroupOf for kinds outside the registry.
const UndefinedGroup = "undefined"

const (
	GroupApps        = "apps"
	GroupAutoscaling = "autoscaling"
	GroupBatch       = "batch"
	GroupCore        = "core"
	GroupDiscovery   = "discovery"
	GroupNetworking  = "networking"
	GroupPolicy      = "policy"
	GroupRBAC        = "rbac"
	GroupScheduling  = "scheduling"
	GroupStorage     = "storage"
)

const builtinPackagePrefix = "k8s.io/api/"

// officialResources is the only place official resources are declared.
// The grouped view, the kind index and the group versions are derived from it.
var officialResources = []Resource{
	official(GroupApps, "v1", "Deployment", true),
	official(GroupApps, "v1", "StatefulSet", true),
	official(GroupApps, "v1", "ReplicaSet", true),
	official(GroupApps, "v1", "DaemonSet", true),
	official(GroupApps, "v1", "ControllerRevision", true),

	official(GroupAutoscaling, "v2", "HorizontalPodAutoscaler", true),

	official(GroupBatch, "v1", "Job", true),
	official(GroupBatch, "v1", "CronJob", true),

	official(GroupCore, "v1", "Binding", true),
	official(GroupCore, "v1", "Pod", true),
	official(GroupCore, "v1", "PodTemplate", true),
	official(GroupCore, "v1", "Endpoints", true),
	official(GroupCore, "v1", "ReplicationController", true),
	official(GroupCore, "v1", "Node", false),
	official(GroupCore, "v1", "Namespace", false),
	official(GroupCore, "v1", "Service", true),
	official(GroupCore, "v1", "ServiceAccount", true),
	official(GroupCore, "v1", "ConfigMap", true),
	official(GroupCore, "v1", "Secret", true),
	official(GroupCore, "v1", "LimitRange", true),
	official(GroupCore, "v1", "ResourceQuota", true),
	official(GroupCore, "v1", "PersistentVolume", false),
	official(GroupCore, "v1", "PersistentVolumeClaim", true),

	official(GroupDiscovery, "v1", "EndpointSlice", true),

	official(GroupNetworking, "v1", "Ingress", true),
	official(GroupNetworking, "v1", "IngressClass", false),
	official(GroupNetworking, "v1", "NetworkPolicy", true),

	official(GroupPolicy, "v1", "PodDisruptionBudget", true),

	official(GroupRBAC, "v1", "Role", true),
	official(GroupRBAC, "v1", "RoleBinding", true),
	official(GroupRBAC, "v1", "ClusterRole", false),
	official(GroupRBAC, "v1", "ClusterRoleBinding", false),

	official(GroupScheduling, "v1", "PriorityClass", false),

	official(GroupStorage, "v1", "CSIDriver", false),
	official(GroupStorage, "v1", "CSINode", false),
	official(GroupStorage, "v1", "CSIStorageCapacity", true),
	official(GroupStorage, "v1", "StorageClass", false),
	official(GroupStorage, "v1", "VolumeAttachment", false),
}

// groupVersionHistory lists the versions each group has served, current
// version first. Versions used by officialResources are added when missing.
var groupVersionHistory = map[string][]string{
	GroupApps:        {"v1", "v1beta2", "v1beta1"},
	GroupAutoscaling: {"v1", "v2", "v2beta2", "v2beta1"},
	GroupBatch:       {"v1", "v1beta1"},
	GroupCore:        {"v1"},
	GroupDiscovery:   {"v1", "v1beta1"},
	GroupNetworking:  {"v1", "v1beta1"},
	GroupPolicy:      {"v1", "v1beta1"},
	GroupRBAC:        {"v1", "v1beta1", "v1alpha1"},
	GroupScheduling:  {"v1", "v1beta1", "v1alpha1"},
	GroupStorage:     {"v1", "v1beta1", "v1alpha1"},
}

// schemaGroups maps short group names to the API group served by kube-apiserver
var schemaGroups = map[string]string{
	GroupCore:       "",
	GroupDiscovery:  "discovery.k8s.io",
	GroupNetworking: "networking.k8s.io",
	GroupRBAC:       "rbac.authorization.k8s.io",
	GroupScheduling: "scheduling.k8s.io",
	GroupStorage:    "storage.k8s.io",
}

func official(group, version, kind string, namespaced bool) Resource {
	return Resource{
		Kind:         kind,
		Group:        group,
		Version:      version,
		Package:      BuiltinPackage(group, version),
		IsNamespaced: &namespaced,
	}
}

type catalog struct {
	byGroup  map[string][]Resource
	byKind   map[string]Resource
	groups   []string
	versions map[string][]string
}

func newCatalog(resources []Resource, history map[string][]string) *catalog {
	c := &catalog{
		byGroup:  make(map[string][]Resource),
		byKind:   make(map[string]Resource, len(resources)),
		versions: make(map[string][]string, len(history)),
	}
	for group, versions := range history {
		c.versions[group] = slices.Clone(versions)
	}
	for _, r := range resources {
		if _, exists := c.byKind[r.Kind]; exists {
			continue
		}
		c.byKind[r.Kind] = r
		c.byGroup[r.Group] = append(c.byGroup[r.Group], r)
		if !slices.Contains(c.versions[r.Group], r.Version) {
			c.versions[r.Group] = append(c.versions[r.Group], r.Version)
		}
	}
	for group := range c.versions {
		c.groups = append(c.groups, group)
	}
	sort.Strings(c.groups)
	return c
}

var officialCatalog = newCatalog(officialResources, groupVersionHistory)

// KindToGroup returns the group owning an official kind.
func KindToGroup(kind string) (string, bool) {
	r, ok := officialCatalog.byKind[kind]
	return r.Group, ok
}

// GroupOf returns the group owning kind, or UndefinedGroup when the kind is
// not official. Prefer KindToGroup; GroupOf serves generators that expect the
// sentinel.
func GroupOf(kind string) string {
	if group, ok := KindToGroup(kind); ok {
		return group
	}
	return UndefinedGroup
}

// GroupToVersions returns the versions a group has served, current version
// first. The result is empty for unknown groups.
func GroupToVersions(group string) []string {
	return slices.Clone(officialCatalog.versions[group])
}

// Lookup returns the official resource for kind.
func Lookup(kind string) (Resource, bool) {
	r, ok := officialCatalog.byKind[kind]
	if !ok {
		return Resource{}, false
	}
	return r.clone(), true
}

// Official returns the official resources keyed by group. The map and its
// slices are copies.
func Official() map[string][]Resource {
	out := make(map[string][]Resource, len(officialCatalog.byGroup))
	for group, resources := range officialCatalog.byGroup {
		out[group] = cloneAll(resources)
	}
	return out
}

// All returns every official resource, ordered by group name.
func All() []Resource {
	out := make([]Resource, 0, len(officialCatalog.byKind))
	for _, group := range officialCatalog.groups {
		out = append(out, cloneAll(officialCatalog.byGroup[group])...)
	}
	return out
}

// Groups returns the sorted names of all builtin groups.
func Groups() []string {
	return slices.Clone(officialCatalog.groups)
}

// SchemaGroup returns the API group name for a short group name, e.g.
// rbac.authorization.k8s.io for rbac. Unknown names are returned unchanged.
func SchemaGroup(group string) string {
	if g, ok := schemaGroups[group]; ok {
		return g
	}
	return group
}

// IsBuiltinGroup reports whether group belongs to Kubernetes itself, either
// by short name or by the .k8s.io suffix.
func IsBuiltinGroup(group string) bool {
	if group == "v1" || strings.HasSuffix(group, ".k8s.io") {
		return true
	}
	_, ok := officialCatalog.versions[group]
	return ok
}

// BuiltinPackage returns the k8s.io/api package for a short group and version.
func BuiltinPackage(group, version string) string {
	return builtinPackagePrefix + group + "/" + version
}

// GroupVersionKind returns the apimachinery identity of r.
func GroupVersionKind(r Resource) schema.GroupVersionKind {
	return schema.GroupVersionKind{
		Group:   SchemaGroup(r.Group),
		Version: r.Version,
		Kind:    r.Kind,
	}
}

// APIVersion returns the apiVersion field value for r, e.g. apps/v1 or v1.
func APIVersion(r Resource) string {
	return GroupVersionKind(r).GroupVersion().String()
}

func (r Resource) clone() Resource {
	if r.IsNamespaced != nil {
		namespaced := *r.IsNamespaced
		r.IsNamespaced = &namespaced
	}
	return r
}

func cloneAll(resources []Resource) []Resource {
	out := make([]Resource, len(resources))
	for i := range resources {
		out[i] = resources[i].clone()
	}
	return out
}

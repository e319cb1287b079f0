package generation

import (
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/naming"
	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

// FuncMap returns the sprig text functions together with the naming rules,
// for generators that render a Plan with text/template.
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["alias"] = naming.Alias
	funcs["isVersion"] = naming.IsVersionToken
	funcs["versionFromPackage"] = naming.VersionFromPackage
	funcs["shortPackageName"] = naming.ShortPackageName
	funcs["lowerKind"] = naming.LowerKind
	funcs["fileNameFor"] = naming.FileNameFor
	funcs["groupOf"] = registry.GroupOf
	funcs["groupVersions"] = registry.GroupToVersions
	funcs["schemaGroup"] = registry.SchemaGroup
	return funcs
}

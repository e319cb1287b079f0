//go:build generate
// +build generate

// Tool dependencies are imported here so go.mod tracks their versions.

// Generate deepcopy methods and the input CRD.
//go:generate go run -tags generate sigs.k8s.io/controller-tools/cmd/controller-gen paths=./input/v1beta1 object crd:crdVersions=v1 output:artifacts:config=package/input

package main

import (
	_ "sigs.k8s.io/controller-tools/cmd/controller-gen"
)

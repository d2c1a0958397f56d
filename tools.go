//go:build tools
// +build tools

// Package tools pins the code generators used through `go generate`.
package ner_lab

import (
	_ "go.uber.org/mock/mockgen"
)

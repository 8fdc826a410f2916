//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Inspects the sample particle heap and prints its detailed map.
func (Run) Inspect() error {
	_, err := executeCmd("go",
		withArgs("run", "./cmd/heapinspect", "-detailed", "config/testdata/particles.toml"),
		withStream())
	return err
}

// Inspects the sample particle heap again each time it changes.
func (Run) Watch() error {
	mg.Deps(Test.All)
	_, err := executeCmd("go",
		withArgs("run", "./cmd/heapinspect", "-watch", "-level", "debug", "config/testdata/particles.toml"),
		withStream())
	return err
}

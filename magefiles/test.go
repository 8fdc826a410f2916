//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package's tests.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the tests with the debug_mem_utils tag, which turns on index and consistency checks.
func (Test) Debug() error {
	_, err := executeCmd("go", withArgs("test", "-tags", "debug_mem_utils", "./..."), withStream())
	return err
}

// Runs go vet against both build configurations.
func (Test) Vet() error {
	if _, err := executeCmd("go", withArgs("vet", "./...")); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("vet", "-tags", "debug_mem_utils", "./..."))
	return err
}

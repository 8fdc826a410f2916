//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Generate mg.Namespace

// Regenerates the gomock doubles for the native interfaces.
func (Generate) Mocks() error {
	_, err := executeCmd("go", withArgs("generate", "./native/..."), withStream())
	return err
}

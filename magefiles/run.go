//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the untextured castle demo on the null device.
func (Run) Shapes() error {
	fmt.Println("Run shapes demo...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-demo", "shapes"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the textured castle demo on the null device.
func (Run) Crate() error {
	fmt.Println("Run crate demo...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-demo", "crate"), withStream()); err != nil {
		return err
	}
	return nil
}

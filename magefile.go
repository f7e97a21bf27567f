//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Build

// Build compiles the phrasememo binary
func Build() error {
	return sh.RunV("go", "build", "-o", "phrasememo", "./cmd/phrasememo")
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install builds and installs phrasememo into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/phrasememo")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm("phrasememo")
}

// Package main is the entry point for the pxdgen CLI tool.
package main

import (
	"github.com/renpy/pxdgen/internal/cmd"
)

func main() {
	cmd.Execute()
}

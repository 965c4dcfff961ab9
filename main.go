// Package main is the entry point for the repaint CLI.
package main

import "github.com/repaint-dev/repaint/cmd"

func main() {
	cmd.Execute()
}

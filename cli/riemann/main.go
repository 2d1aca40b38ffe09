// Package main is the riemann CLI command itself.
package main

import (
	"fmt"
	"os"

	rcli "go.viam.com/riemann/cli"
)

func main() {
	app := rcli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err) //nolint:errcheck
		os.Exit(1)
	}
}

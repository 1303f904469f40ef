// Command gdext builds Python-backed GDNative libraries for Godot projects.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"

	"github.com/contriboss/godot-extension-go/internal/console"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", eris.ToString(err, console.Debug()))
		os.Exit(1)
	}
}

// ABOUTME: Entry point for the scout CLI.
// ABOUTME: Delegates to Execute, which owns storage cleanup.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

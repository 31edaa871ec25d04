package main

import (
	"fmt"
	"io"
	"os"

	"jah/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports a command failure along with any suggested fixes.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.Hints(err) {
		fmt.Fprintln(w, hint)
	}
}

package main

import (
	"fmt"
	"os"

	pyerrors "pyedit/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err and any suggested fixes to stderr.
func reportError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var pe *pyerrors.PyeditError
	if !asPyeditError(err, &pe) {
		return
	}
	for _, fix := range pe.SuggestedFixes {
		if fix.Command != "" {
			fmt.Fprintf(os.Stderr, "  hint: %s\n        $ %s\n", fix.Description, fix.Command)
		} else {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", fix.Description)
		}
	}
}

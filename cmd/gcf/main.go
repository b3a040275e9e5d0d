package main

import (
	"fmt"
	"io"
	"os"

	"gcf/internal/errors"
)

func main() {
	err := rootCmd.Execute()
	shutdownTracing()
	closeLogFile()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for invalid arguments and 1 for every other failure.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errors.InvalidArguments) {
		return 2
	}
	return 1
}

// printError writes the diagnostic and any suggested fixes.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var e *errors.Error
	if !errors.As(err, &e) {
		return
	}
	fixes := e.SuggestedFixes
	if len(fixes) == 0 {
		fixes = errors.GetSuggestedFixes(e.Code)
	}
	for _, fix := range fixes {
		switch {
		case fix.Command != "":
			fmt.Fprintf(w, "  try: %s  (%s)\n", fix.Command, fix.Description)
		case fix.URL != "":
			fmt.Fprintf(w, "  see: %s  (%s)\n", fix.URL, fix.Description)
		case fix.Description != "":
			fmt.Fprintf(w, "  hint: %s\n", fix.Description)
		}
	}
}

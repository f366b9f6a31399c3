// Package main is the entry point for the vocalis CLI.
//
// Usage:
//
//	vocalis [flags] <command> [args]
//
// Commands:
//
//	analyze    - Run voice-biomarker extraction on a WAV recording
//	get        - Fetch one stored insight
//	list       - List all insights for a recording
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/sagehealth/vocalis/cmd/vocalis/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

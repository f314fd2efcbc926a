// Package main provides the entry point for apexsim: a cycle-accurate
// out-of-order APEX CPU simulator.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/apexsim/repl"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: cpu <asm_file>\n")
		os.Exit(1)
	}

	asmPath := os.Args[1]
	if _, err := os.Stat(asmPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	r := repl.New(asmPath, os.Stdout)
	os.Exit(r.Run(os.Stdin))
}

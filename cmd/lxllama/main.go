package main

import (
	"fmt"
	"os"

	// Registers the hf: provider with provider.Default.
	_ "lxllama/internal/llamacpp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

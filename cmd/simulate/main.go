package main

import (
	"fmt"
	"os"
)

func main() {
	// Execute the root command
	rootCmd := newRootCmd(defaultServices)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

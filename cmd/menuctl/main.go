// Package main provides menuctl, an offline tool that loads menu documents
// into memory and answers resolve, price, validate and detach questions
// about them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

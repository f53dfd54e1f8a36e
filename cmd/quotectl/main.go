// Command quotectl is the operator CLI for the mood quote service: it checks
// quote source connectivity, analyzes text and fetches quotes from a terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

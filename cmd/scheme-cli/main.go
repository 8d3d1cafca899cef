// Command scheme-cli runs the eligibility engine offline, without Zeebe or
// any backing store.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

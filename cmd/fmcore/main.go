// Command fmcore is the local operator surface for the storage core:
// directory listing, index builds, search and recycle bin management over
// the configured storage roots. There is no network interface.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Command reqtmpl resolves request prototypes from a YAML or JSON definition file and
// prints the resulting raw HTTP requests.
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

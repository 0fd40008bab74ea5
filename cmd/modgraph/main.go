// Command modgraph resolves a dependency graph from a universe file: a YAML
// description of every available component and its variants. It prints the
// resolved graph as a tree, a flat list, or Graphviz dot.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "modgraph:", err)
		os.Exit(1)
	}
}

// Command meshforge synthesizes benchmarkable microservice application
// graphs from a declarative config, and aggregates per-handler resource
// utilization from completed benchmark runs back into that config's
// handler tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

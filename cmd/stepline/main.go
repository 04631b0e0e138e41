// stepline rebuilds process graphs from flattened process-model exports and
// prints the ordered test steps they describe.
//
// Usage:
//
//	stepline run <export.csv> [--format=ascii|markdown|csv|json] [--save]
//	stepline batch <dir|export.csv...> [--parallel=N] [--force] [--out=<file>]
//	stepline nodes <export.csv>
//	stepline version
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

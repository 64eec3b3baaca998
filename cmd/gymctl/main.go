// Command gymctl runs the console's pure view-model builders over local JSON
// files and carries a few operator chores (tokens, migrations, photo listing).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

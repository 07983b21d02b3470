// posctl is the operator console for the register: it browses the catalog,
// rings up sales and prints the ledger and sales reports.
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

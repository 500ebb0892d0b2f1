// Command vaultcli is the host application for the credvault library: a
// one-shot CLI that opens a vault, performs a single operation, and exits.
package main

import (
	"github.com/credvault/credvault/internal/cli"
)

func main() {
	cli.Execute()
}

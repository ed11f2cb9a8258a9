// main is the entry point for the gradedash CLI.
package main

import (
	"os"

	"github.com/wctc-net-database/gradedash/cmd"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/iocache"
)

func main() {
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogWarn("gradedash failed", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"ColdVault/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

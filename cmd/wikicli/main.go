package main

import (
	"os"

	"github.com/hashicorp-forge/wikicli/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}

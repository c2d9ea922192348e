package main

import (
	"os"

	"github.com/bernlang/bern/pkg/cli"
)

func main() {
	os.Exit(cli.Entry(os.Args[1:], os.Stdout, os.Stderr))
}

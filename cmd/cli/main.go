package main

import (
	"os"

	"github.com/debtdesk/debtdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

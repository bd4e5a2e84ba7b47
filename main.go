package main

import (
	"os"

	"issuerpick/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

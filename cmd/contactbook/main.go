package main

import (
	"os"

	"github.com/aradsms/contactbook/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

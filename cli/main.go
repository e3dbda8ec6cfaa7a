package main

import (
	"github.com/pagedeck/pagedeck/cli/cmd"
)

func main() {
	cmd.Execute()
}

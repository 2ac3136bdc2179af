package main

import (
	"github.com/moneytom/LD2412-Tools/pkg/cli/sh"

	_ "github.com/moneytom/LD2412-Tools/pkg/cli/cmds/ld2412"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}

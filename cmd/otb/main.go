package main

import (
	"github.com/OpenTraceLab/OpenTraceBlocks/cmd/otb/cmd"
)

func main() {
	cmd.Execute()
}

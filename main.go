package main

import (
	"github.com/stjude/fuzzion2/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}

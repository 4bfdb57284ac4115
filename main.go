package main

import (
	"github.com/hollisdev/scriptsync/cmd"
	"github.com/hollisdev/scriptsync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}

package main

import (
	"os"
	"runtime"

	"github.com/deepcfish/sexpack/internal/cli"
	"github.com/deepcfish/sexpack/internal/gui"
)

func main() {
	if len(os.Args) > 1 {
		os.Exit(cli.Run(os.Args[1:]))
	}

	runtime.LockOSThread() // Fyne's platform backend requires the main OS thread
	gui.Run()
}

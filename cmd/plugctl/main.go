package main

import (
	"os"

	"plugd/internal/ctl"
)

func main() { os.Exit(ctl.Main(os.Args[1:])) }

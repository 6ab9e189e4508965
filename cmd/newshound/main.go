package main

import (
	"os"

	"github.com/kgrajski/neurotech-newshound/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}

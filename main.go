package main

import (
	"os"

	"github.com/abhisek/lessonkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/classleaf/quizport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"kbc-quiz-game/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

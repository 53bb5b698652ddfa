package main

import (
	"os"

	"github.com/ArowuTest/bridgetunes-raffle/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

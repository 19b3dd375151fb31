package main

import (
	"os"

	"github.com/dmarsters/slapstick-enhancer/cmd/slapstick/commands"
	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/logger"
)

func main() {
	defer logger.Cleanup()
	if err := commands.NewRootCmd().Execute(); err != nil {
		display.Error(os.Stderr, err)
		logger.Cleanup()
		os.Exit(1)
	}
}

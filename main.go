package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ziadkadry99/docchat/cmd"
)

func main() {
	// Load a local .env when present; real environment wins.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

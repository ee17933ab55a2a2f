package main

import (
	"os"

	"github.com/ggonzalez94/intents/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; values already in the environment win.
	_ = godotenv.Load()
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}

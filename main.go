package main

import (
	"github.com/joho/godotenv"

	"github.com/princealiomer/Google-ads/cmd"
	"github.com/princealiomer/Google-ads/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()

	cmd.Execute()
}

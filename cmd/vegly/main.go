package main

import (
	"vegly/cmd/handlers"
	"vegly/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}

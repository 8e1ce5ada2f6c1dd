package main

import (
	"slotswap/core/logger"
	"slotswap/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}

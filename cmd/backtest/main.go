package main

import (
	"os"

	"github.com/viekt/finam-news-llm-analysis/cmd/backtest/commands"
)

// Entry point for the unified CLI: go run ./cmd/backtest [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/wonny/stockreco/cmd/reco/commands"
)

// main is the entry point for the stockreco CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/reco [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"designhub-backend/cmd/designhubctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"paysuite/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "paysuite: %v\n", err)
		os.Exit(1)
	}
}

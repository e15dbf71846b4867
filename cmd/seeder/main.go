package main

import (
	"os"

	"parodioczolko/internal/repositories"
)

func main() {
	if err := newRootCmd(repositories.Open).Execute(); err != nil {
		os.Exit(1)
	}
}

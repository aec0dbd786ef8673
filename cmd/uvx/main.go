// cmd/uvx/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/robinvandernoord/uvx"
	"github.com/robinvandernoord/uvx/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// the child already reported its own failure
		var exitErr *uvx.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

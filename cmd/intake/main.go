// cmd/intake/main.go
package main

import (
	"context"
	"os"

	"github.com/dalemusser/intake/app"
	"github.com/dalemusser/intake/internal/app/bootstrap"
)

func main() {
	// app.Run logs its own failures.
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		os.Exit(1)
	}
}

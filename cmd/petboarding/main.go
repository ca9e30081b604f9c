// Command petboarding runs the boarding backend: it connects to PostgreSQL,
// wires the repositories and services and serves the operational endpoints
// (/live, /ready, /health, /metrics) until SIGINT or SIGTERM.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/petboarding/petboarding-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		slog.Error("application stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

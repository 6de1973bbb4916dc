package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/hirebridge-backend/internal/app"
)

func main() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}

	code := 0
	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server exited", "error", err)
		code = 1
	} else {
		a.Log.Info("Server stopped")
	}
	a.Close()
	os.Exit(code)
}

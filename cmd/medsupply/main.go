package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/niksmo/medsupply/config"
	"github.com/niksmo/medsupply/internal/app"
)

const closeTimeout = 10 * time.Second

func main() {
	sigCtx, closeApp := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	medsupply := app.New(sigCtx, cfg)

	medsupply.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	medsupply.Close(ctx)
}

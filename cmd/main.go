package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nate5599/homework-helper/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	app, cleanup, err := bootstrap.Init(*configPath)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	sugar := app.Sugar

	go func() {
		listenAddr := fmt.Sprintf(":%d", app.Config.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := app.App.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cleanup(ctx)

	sugar.Info("Graceful shutdown complete. Goodbye!")
}

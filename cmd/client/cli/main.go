package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mkraev/carelink/internal/buildinfo"
	"github.com/mkraev/carelink/internal/client/cli"
	"github.com/mkraev/carelink/internal/client/config"
	"github.com/mkraev/carelink/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}

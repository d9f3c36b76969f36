package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lox/sunshine/internal/config"
	"github.com/lox/sunshine/internal/inject"
)

type CLI struct {
	Config config.Config `embed:""`

	Serve    ServeCmd    `cmd:"" help:"Run the sync pipeline and HTTP server."`
	Sync     SyncCmd     `cmd:"" help:"Run one sync cycle and exit."`
	Watch    WatchCmd    `cmd:"" help:"Print forecast updates as they arrive."`
	Forecast ForecastCmd `cmd:"" help:"Print stored forecasts."`
	Export   ExportCmd   `cmd:"" help:"Write stored forecasts as JSON or CSV."`
	Import   ImportCmd   `cmd:"" help:"Load forecasts from a CSV export."`
	Prefs    PrefsCmd    `cmd:"" help:"Show or change preferences."`
}

// Env is bound into every command's Run.
type Env struct {
	Ctx context.Context
	App *inject.App
	Out io.Writer
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load env: %v", err)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("sunshine"),
		kong.Description("Keeps a local copy of the daily weather forecast in sync."),
		kong.UsageOnError(),
	)

	app, err := inject.New(cli.Config)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runErr := kctx.Run(&Env{Ctx: ctx, App: app, Out: os.Stdout})
	if err := app.Close(); err != nil {
		log.Printf("close: %v", err)
	}
	if runErr != nil {
		log.Fatalf("%s: %v", kctx.Command(), runErr)
	}
}

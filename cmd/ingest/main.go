// Command ingest runs the ingestion pipeline once and prints the run summary as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadilmartias/job-atlas/internal/app"
	"github.com/fadilmartias/job-atlas/internal/config"
	applogger "github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	recomputeOnly := flag.Bool("recompute", false, "only recompute the PCA projection")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		os.Stderr.WriteString("could not load .env file, using process environment\n")
	}

	appConfig := config.LoadAppConfig()
	l := applogger.New(appConfig.LogLevel, appConfig.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, l)
	if err != nil {
		l.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	var out any
	if *recomputeOnly {
		out, err = a.Projection.Recompute(ctx)
	} else {
		out, err = a.Ingestion.Run(ctx)
	}
	if err != nil {
		l.Error().Err(err).Msg("ingest failed")
		a.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		l.Error().Err(err).Msg("could not write summary")
	}
}

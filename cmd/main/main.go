package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/matt-steen/myday/pkg/config"
	"github.com/matt-steen/myday/pkg/controller"
	"github.com/matt-steen/myday/pkg/db"
	"github.com/matt-steen/myday/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to the config file (default $XDG_CONFIG_HOME/myday/config.yaml)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	// a missing .env is fine; real environment variables win over it
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	if *debug {
		cfg.Log.Level = zerolog.DebugLevel.String()
	}

	if err := cfg.EnsureDirs(); err != nil {
		panic(err)
	}

	filePerms := 0o666

	logFile, err := os.OpenFile(cfg.Log.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		panic(err)
	}

	defer logFile.Close()

	level, err := cfg.LogLevel()
	if err != nil {
		panic(err)
	}

	zerolog.SetGlobalLevel(level)

	log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	})

	log.Info().Str("db", cfg.Database.Path).Str("level", level.String()).Msg("starting application...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.NewDatabase(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening database")
	}

	defer database.Close()

	tasks := store.New(ctx, database)

	app, err := controller.NewController(ctx, tasks, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating controller")
	}

	if err := app.Go(); err != nil {
		log.Error().Err(err).Msg("terminal ui exited with an error")
	}

	log.Info().Msg("stopped")
}

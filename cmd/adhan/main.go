package main

import (
	"adhan/internal/di"
	"adhan/internal/structures"
	"context"
	"flag"

	"github.com/rs/zerolog/log"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "d", false, "debug mode")
	flag.Parse()

	app, cleanup, err := di.InitApp(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to initialize application")
	}
	defer cleanup()

	if err := app.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("application stopped with error")
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/vidgallery/internal/buildinfo"
	"github.com/dmitrijs2005/vidgallery/internal/client/cli"
	"github.com/dmitrijs2005/vidgallery/internal/client/config"
	"github.com/dmitrijs2005/vidgallery/internal/filex"
	"github.com/dmitrijs2005/vidgallery/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		log.Fatalf("%v", err)
	}

	logger, closer, err := logging.OpenFile(cfg.LogPath(), logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closer.Close()

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "shutdown", "err", err)
		}
	}()

	app.Run(ctx)

}

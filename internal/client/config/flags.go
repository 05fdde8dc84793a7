package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/flagx"
)

var knownFlags = []string{"-a", "-m", "-t", "-u", "-p", "-b", "-d", "-l", "-v", "-r"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   API base URL
//	-m string   media base URL
//	-t int      request timeout in seconds
//	-u int      upload timeout in seconds (0 disables)
//	-p string   external player command; empty uses the built-in player
//	-b int      bytes fetched by a preload hint (0 disables)
//	-d string   data directory for the session store and log
//	-l string   log file
//	-v string   log level
//	-r int      logical pixels per terminal row
//
// Unknown arguments are filtered out first so other components can own them.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("vidgallery", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.MediaBaseURL, "m", cfg.MediaBaseURL, "media base URL")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	uploadTimeout := fs.Int("u", int(cfg.UploadTimeout.Seconds()), "upload timeout (in seconds)")
	fs.StringVar(&cfg.PlayerCommand, "p", cfg.PlayerCommand, "external player command")
	fs.Int64Var(&cfg.PreloadBytes, "b", cfg.PreloadBytes, "preload bytes")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.IntVar(&cfg.PixelsPerRow, "r", cfg.PixelsPerRow, "logical pixels per terminal row")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	// Seconds only replace the JSON value when given explicitly, so that
	// sub-second durations from the file survive.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["t"] {
		cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	}
	if set["u"] {
		cfg.UploadTimeout = time.Duration(*uploadTimeout) * time.Second
	}

	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("parse flags: request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.PixelsPerRow <= 0 {
		return fmt.Errorf("parse flags: pixels per row must be positive, got %d", cfg.PixelsPerRow)
	}
	return nil
}

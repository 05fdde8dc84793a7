package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/vidgallery/internal/client/media"
)

// DefaultBaseURL serves both the API and the media files.
const DefaultBaseURL = media.DefaultBase

// Config holds runtime settings for the vidgallery client.
//
// Units: RequestTimeout and UploadTimeout are time.Duration; PreloadBytes is
// bytes; PixelsPerRow converts one terminal row into logical pixels for the
// feed gesture threshold.
type Config struct {
	APIBaseURL     string
	MediaBaseURL   string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	PlayerCommand  string
	PreloadBytes   int64
	DataDir        string
	LogFile        string
	LogLevel       string
	PixelsPerRow   int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultBaseURL
	c.MediaBaseURL = DefaultBaseURL
	c.RequestTimeout = 10 * time.Second
	c.UploadTimeout = 30 * time.Minute
	c.PlayerCommand = ""
	c.PreloadBytes = 1 << 20
	c.DataDir = defaultDataDir()
	c.LogFile = ""
	c.LogLevel = "info"
	c.PixelsPerRow = 20
}

// LogPath is LogFile, or vidgallery.log inside DataDir when unset.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "vidgallery.log")
}

// StorePath is the sqlite session database inside DataDir.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "session.db")
}

// LoadConfig applies defaults, then JSON, then flags from args (without the
// program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "vidgallery")
	}
	return ".vidgallery"
}

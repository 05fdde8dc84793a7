package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vidgallery/internal/flagx"
	"github.com/dmitrijs2005/vidgallery/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-valued fields that are absent leave the current value untouched.
type JSONConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	MediaBaseURL   string          `json:"media_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	UploadTimeout  *timex.Duration `json:"upload_timeout"`
	PlayerCommand  *string         `json:"player_command"`
	PreloadBytes   *int64          `json:"preload_bytes"`
	DataDir        string          `json:"data_dir"`
	LogFile        string          `json:"log_file"`
	LogLevel       string          `json:"log_level"`
	PixelsPerRow   int             `json:"pixels_per_row"`
}

// parseJSON overlays cfg with the file named by -c/-config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.MediaBaseURL, jc.MediaBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.UploadTimeout != nil {
		cfg.UploadTimeout = jc.UploadTimeout.Duration
	}
	if jc.PlayerCommand != nil {
		cfg.PlayerCommand = *jc.PlayerCommand
	}
	if jc.PreloadBytes != nil {
		cfg.PreloadBytes = *jc.PreloadBytes
	}
	if jc.PixelsPerRow > 0 {
		cfg.PixelsPerRow = jc.PixelsPerRow
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

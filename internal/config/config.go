// Package config loads program settings from an optional INI file.
package config

import (
	"gopkg.in/gcfg.v1"
)

// GeneralConfig ini
type GeneralConfig struct {
	Source      string
	OutputDir   string `gcfg:"output-dir"`
	CacheDir    string `gcfg:"cache-dir"`
	Mode        string
	Concurrency int
}

// FetchConfig ini
type FetchConfig struct {
	TimeoutSeconds    int `gcfg:"timeout-seconds"`
	Attempts          int
	RequestsPerSecond int    `gcfg:"requests-per-second"`
	UserAgent         string `gcfg:"user-agent"`
}

// OutputConfig ini
type OutputConfig struct {
	Dedupe      bool
	GeoIPDB     string `gcfg:"geoip-db"`
	FinalPolicy string `gcfg:"final-policy"`
}

// AppConfig holds every program setting with its defaults applied.
type AppConfig struct {
	General GeneralConfig
	Fetch   FetchConfig
	Output  OutputConfig
	File    string
}

// Parse fills cfg with defaults and, when filename is non-empty, overlays the
// settings file on top. CLI flags are applied by the caller afterwards.
func (cfg *AppConfig) Parse(filename string) error {
	cfg.General.Source = "ACL4SSR.ini"
	cfg.General.OutputDir = "shadowrocket"
	cfg.General.CacheDir = "cache"
	cfg.General.Mode = "list"
	cfg.General.Concurrency = 10

	cfg.Fetch.TimeoutSeconds = 30
	cfg.Fetch.Attempts = 3
	cfg.Fetch.RequestsPerSecond = 10

	cfg.Output.FinalPolicy = "PROXY"

	if filename == "" {
		return nil
	}
	if err := gcfg.ReadFileInto(cfg, filename); err != nil {
		return err
	}
	cfg.File = filename
	return nil
}

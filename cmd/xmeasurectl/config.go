package main

import (
	"fmt"
	"os"

	"github.com/omeyang/xmeasure/pkg/config/xconf"
	"github.com/omeyang/xmeasure/pkg/observability/xmeasure"
)

// appConfig 配置文件结构
//
//	measure:
//	  localization: english
//	  track_memory: true
//	  timestamp: {preset: time_ms}
//	log:
//	  level: info
//	  format: text
//	sinks:
//	  console: {enabled: true, scheme: default}
//	  log: {enabled: false}
//	  file: {enabled: false, path: measure.jsonl, max_size_mb: 50}
type appConfig struct {
	Measure xmeasure.Config `koanf:"measure"`
	Log     logConfig       `koanf:"log"`
	Sinks   sinksConfig     `koanf:"sinks"`
}

type logConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type sinksConfig struct {
	Console consoleConfig `koanf:"console"`
	Log     toggleConfig  `koanf:"log"`
	File    fileConfig    `koanf:"file"`
}

type toggleConfig struct {
	Enabled bool `koanf:"enabled"`
}

type consoleConfig struct {
	Enabled bool   `koanf:"enabled"`
	Scheme  string `koanf:"scheme"`
	Colors  *bool  `koanf:"colors"`
}

type fileConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	MaxSizeMB int    `koanf:"max_size_mb"`
}

func defaultAppConfig() appConfig {
	return appConfig{
		Log: logConfig{Level: "info", Format: "text"},
		Sinks: sinksConfig{
			Console: consoleConfig{Enabled: true, Scheme: "default"},
			File:    fileConfig{Path: "xmeasure.jsonl", MaxSizeMB: 50},
		},
	}
}

// loadConfig path 为空时返回默认配置与 nil xconf.Config
func loadConfig(path string) (appConfig, xconf.Config, error) {
	cfg := defaultAppConfig()
	if path == "" {
		return cfg, nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, nil, &usageError{msg: fmt.Sprintf("配置文件不可读: %v", err)}
	}
	xc, err := xconf.New(path)
	if err != nil {
		return cfg, nil, err
	}
	if err := xc.Unmarshal("", &cfg); err != nil {
		return cfg, nil, err
	}
	return cfg, xc, nil
}

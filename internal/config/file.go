package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration. Environment variables win over it.
//
//	server:
//	  port: "8585"
//	  cookie_secure: true
//	api:
//	  url: https://api.example.com
//	  timeout: 10s
type FileConfig struct {
	Server ServerSection `yaml:"server"`
	API    APISection    `yaml:"api"`
	Images ImagesSection `yaml:"images"`
}

type ServerSection struct {
	Port            string `yaml:"port"`
	CookieDomain    string `yaml:"cookie_domain"`
	CookieSecure    bool   `yaml:"cookie_secure"`
	CSRFKey         string `yaml:"csrf_key"`
	SessionKey      string `yaml:"session_key"`
	SessionTTL      string `yaml:"session_ttl"`
	LoginRateWindow string `yaml:"login_rate_window"`
}

type APISection struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type ImagesSection struct {
	MaxWidth int `yaml:"max_width"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

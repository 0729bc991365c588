package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables consulted by LoadServer.
const (
	ServerConfigEnv = "VALUATION_SERVER_CONFIG"
	envPrefix       = "VALUATION_"
)

// Server configures the HTTP API process.
type Server struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// Env is "development" or "production".
	Env string `koanf:"env"`
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`
	// DataPath is the life-table CSV used when a request does not name one.
	DataPath string `koanf:"data_path"`
	// DBPath enables SQLite run storage; empty keeps runs in memory.
	DBPath string `koanf:"db_path"`
	// RunConfig is an optional YAML run config providing request defaults.
	RunConfig string `koanf:"run_config"`
	// CacheTTL bounds how long parsed life tables are reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`
	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`
}

// DefaultServer returns the server defaults.
func DefaultServer() Server {
	return Server{
		Addr:      ":8080",
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "text",
		DataPath:  "data/WPP_Life_Table_Complete.csv",
		CacheTTL:  time.Hour,

		CORSOrigins: []string{"*"},
	}
}

// LoadServer builds a Server config by layering, low to high precedence:
//  1. defaults (DefaultServer)
//  2. YAML file named by VALUATION_SERVER_CONFIG, if set
//  3. env (prefix VALUATION_), e.g. VALUATION_DB_PATH -> db_path
func LoadServer(_ context.Context) (Server, error) {
	k := koanf.New(".")

	if path := os.Getenv(ServerConfigEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Server{}, fmt.Errorf("load server config %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "cors_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Server{}, fmt.Errorf("load server env: %w", err)
	}

	cfg := DefaultServer()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Server{}, fmt.Errorf("decode server config: %w", err)
	}
	if cfg.Addr == "" {
		return Server{}, errors.New("addr must not be empty")
	}
	return cfg, nil
}

// Production reports whether the server runs in production mode.
func (s Server) Production() bool {
	return strings.EqualFold(s.Env, "production")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Package config loads application configuration from file, environment and
// flags via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

// Config holds application-wide configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	PG      PGConfig      `mapstructure:"pg"`
	OIDC    OIDCConfig    `mapstructure:"oidc"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	// BasicAuth maps usernames to passwords; empty disables basic auth.
	BasicAuth map[string]string `mapstructure:"basicAuth"`
}

type ServerConfig struct {
	ListenAddr  string `mapstructure:"listenAddr"`
	TLSCertFile string `mapstructure:"tlsCertFile"`
	TLSKeyFile  string `mapstructure:"tlsKeyFile"`
	TLSEnabled  bool   `mapstructure:"tlsEnabled"`
}

type PGConfig struct {
	ConnString     string        `mapstructure:"connString"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

type OIDCConfig struct {
	ClientID string `mapstructure:"clientID"`
	Issuer   string `mapstructure:"issuer"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		PG: PGConfig{
			ConnectTimeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
		},
	}
}

// Load reads config from file or environment. Environment variables use the
// DATAGATE_ prefix.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("datagate")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DATAGATE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}

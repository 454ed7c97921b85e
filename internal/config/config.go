package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPriceURL is the spot price endpoint used when no override is set.
// The response shape is the CoinGecko simple-price one: {"ethereum":{"usd":N}}.
const DefaultPriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd"

// NetworkOverride allows a config file to point a known network at a
// different RPC endpoint (chain ids are fixed and cannot be overridden).
type NetworkOverride struct {
	RPCURL string `yaml:"rpc_url"`
}

// Config holds application configuration loaded from an optional YAML file.
type Config struct {
	PriceURL       string
	RequestTimeout time.Duration
	PriceTimeout   time.Duration
	Networks       map[string]NetworkOverride
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PriceURL:       DefaultPriceURL,
		RequestTimeout: 10 * time.Second,
		PriceTimeout:   5 * time.Second,
	}
}

// Load reads the config from a YAML file path and applies fallbacks for any
// field left unset. An empty path returns the defaults. Environment
// variables in the file are expanded, so endpoints can carry ${VAR} keys.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "os.ReadFile")
	}

	// Timeouts are decoded as strings ("5s") since yaml.v3 has no native
	// time.Duration support.
	var raw struct {
		PriceURL       string                     `yaml:"price_url"`
		RequestTimeout string                     `yaml:"request_timeout"`
		PriceTimeout   string                     `yaml:"price_timeout"`
		Networks       map[string]NetworkOverride `yaml:"networks"`
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &raw); err != nil {
		return Config{}, errors.Wrap(err, "yaml.Unmarshal")
	}

	cfg := Default()
	if raw.PriceURL != "" {
		cfg.PriceURL = raw.PriceURL
	}
	if raw.RequestTimeout != "" {
		cfg.RequestTimeout, err = time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return Config{}, errors.Wrap(err, "request_timeout")
		}
	}
	if raw.PriceTimeout != "" {
		cfg.PriceTimeout, err = time.ParseDuration(raw.PriceTimeout)
		if err != nil {
			return Config{}, errors.Wrap(err, "price_timeout")
		}
	}
	cfg.Networks = raw.Networks

	return cfg, nil
}

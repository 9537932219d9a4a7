// Package config is a flat configuration struct populated from CLI flags
// with an optional JSON-file override: a plain struct plus a decode-into
// loader, nothing more dynamic than that.
package config

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds every flag/env value the CLI surface needs across its
// subcommands.
type Config struct {
	Bind      string `json:"bind"`
	PostURL   string `json:"postUrl"`
	LogTarget string `json:"logTarget"`

	PoolDirectory string `json:"poolDirectory"`
	CapturePath   string `json:"capturePath"`

	RPCURL         string `json:"-"`
	FundKeypair    string `json:"-"`
	WSURL          string `json:"-"`
	PurgeSlotWindow uint64 `json:"purgeSlotWindow"`
}

// Default returns a Config with the same defaults server/main.go applies
// for its own flags: a bind address, stdout logging, and the documented
// 512-slot FEC purge window.
func Default() Config {
	return Config{
		Bind:            "0.0.0.0:8001",
		LogTarget:       "stdout",
		PoolDirectory:   "raydium.json",
		CapturePath:     "packets.json",
		PurgeSlotWindow: 512,
	}
}

// LoadJSON overlays a JSON config file onto c, following
// parseJSONConfig's decode-into-existing-struct shape exactly.
func LoadJSON(c *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open config file %s", path)
	}
	defer file.Close()
	return errors.Wrap(json.NewDecoder(file).Decode(c), "decode config file")
}

// LoadEnv loads a .env file if present, matching the original binary's
// dotenv().ok() call: a missing file is not an error.
func LoadEnv(path string) {
	_ = godotenv.Load(path)
}

// FromEnvironment fills the three environment-sourced fields the CLI
// surface documents: RPC_URL, FUND_KEYPAIR_PATH, WS_URL.
func (c *Config) FromEnvironment() {
	c.RPCURL = os.Getenv("RPC_URL")
	c.FundKeypair = os.Getenv("FUND_KEYPAIR_PATH")
	c.WSURL = os.Getenv("WS_URL")
}

// RequireArbEnv validates the environment variables arb-mode requires.
func (c *Config) RequireArbEnv() error {
	if c.RPCURL == "" {
		return errors.New("RPC_URL is required for arb-mode")
	}
	if c.FundKeypair == "" {
		return errors.New("FUND_KEYPAIR_PATH is required for arb-mode")
	}
	return nil
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cajapos/caja/cmd/caja/output"
	"github.com/cajapos/caja/pkg/api"
	"github.com/cajapos/caja/pkg/cart"
	"github.com/cajapos/caja/pkg/store"
	casync "github.com/cajapos/caja/pkg/sync"
	"gopkg.in/yaml.v3"
)

// fileConfig is the yaml config file shape.
type fileConfig struct {
	API string `yaml:"api"`
}

// resolveAPIURL picks the API address: the --api flag wins, then the config
// file. The address is always an explicit input; there is no built-in default.
func resolveAPIURL() (string, error) {
	if apiURL != "" {
		return apiURL, nil
	}

	path := configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("--api flag is required (%v)", err)
		}
		path = filepath.Join(home, ".config", "caja", "config.yaml")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && configPath == "" {
			return "", fmt.Errorf("--api flag is required (no config file at %s)", path)
		}
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return "", fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.API == "" {
		return "", fmt.Errorf("config file %s has no api address", path)
	}
	return cfg.API, nil
}

// newController wires a client, store and cart for a non-interactive command.
func newController(assumeYes bool) (*casync.Controller, error) {
	baseURL, err := resolveAPIURL()
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(api.Config{BaseURL: baseURL})
	if err != nil {
		return nil, err
	}

	if verbose {
		output.Muted("Using API at %s", baseURL)
	}

	ui := output.StdinUI{AssumeYes: assumeYes}
	return casync.NewController(client, store.New(), cart.New(), ui), nil
}

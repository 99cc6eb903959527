// Package project persists placement requests and results as JSON files,
// and owns the application's configuration directory layout.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CargoStow/internal/model"
)

// DefaultConfigDir returns the default directory for application state.
// On all platforms this is ~/.cargostow/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cargostow")
}

// DefaultConfigPath returns the default path for the worker config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveRequest writes a placement request to the given path as indented
// JSON, creating missing parent directories.
func SaveRequest(path string, req model.PlacementRequest) error {
	return writeJSON(path, req)
}

// LoadRequest reads a placement request from a JSON file.
func LoadRequest(path string) (model.PlacementRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PlacementRequest{}, fmt.Errorf("failed to read request %s: %w", path, err)
	}
	var req model.PlacementRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return model.PlacementRequest{}, fmt.Errorf("failed to parse request %s: %w", path, err)
	}
	return req, nil
}

// SaveResult writes an engine output to the given path as indented JSON.
func SaveResult(path string, out model.EngineOutput) error {
	return writeJSON(path, out)
}

// LoadResult reads an engine output from a JSON file.
func LoadResult(path string) (model.EngineOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.EngineOutput{}, fmt.Errorf("failed to read result %s: %w", path, err)
	}
	var out model.EngineOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return model.EngineOutput{}, fmt.Errorf("failed to parse result %s: %w", path, err)
	}
	return out, nil
}

func writeJSON(path string, v interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the directory holding the oracle JSON files
	// (base-meanings.json, position-modifiers.json, combinations.json).
	DataDir string `json:"data_dir,omitempty"`

	// BatchSize is the number of prompts per batch file.
	BatchSize int `json:"batch_size"`

	// MaxCollisionRetries bounds re-sampling when a prompt id collides.
	MaxCollisionRetries int `json:"max_collision_retries"`

	// CardFloor is the minimum per-card appearance count before the
	// coverage analyzer flags a card as under-covered.
	CardFloor int `json:"card_floor"`

	// CategoryTolerancePct is the allowed deviation, in percentage points,
	// between a realized category/spread share and its target.
	CategoryTolerancePct float64 `json:"category_tolerance_pct"`

	// PhaseToleranceFrac is the allowed relative deviation from the uniform
	// moon-phase share (0.15 = 15%).
	PhaseToleranceFrac float64 `json:"phase_tolerance_frac"`

	// ReversedMin and ReversedMax bound the acceptable global reversed ratio.
	ReversedMin float64 `json:"reversed_min"`
	ReversedMax float64 `json:"reversed_max"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:              "data",
		BatchSize:            25,
		MaxCollisionRetries:  5,
		CardFloor:            50,
		CategoryTolerancePct: 2.0,
		PhaseToleranceFrac:   0.15,
		ReversedMin:          0.30,
		ReversedMax:          0.40,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.tarotgen.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DataDir = overlay.DataDir
	if result.DataDir == "" {
		result.DataDir = base.DataDir
	}

	result.BatchSize = overlay.BatchSize
	if result.BatchSize == 0 {
		result.BatchSize = base.BatchSize
	}

	result.MaxCollisionRetries = overlay.MaxCollisionRetries
	if result.MaxCollisionRetries == 0 {
		result.MaxCollisionRetries = base.MaxCollisionRetries
	}

	result.CardFloor = overlay.CardFloor
	if result.CardFloor == 0 {
		result.CardFloor = base.CardFloor
	}

	result.CategoryTolerancePct = overlay.CategoryTolerancePct
	if result.CategoryTolerancePct == 0 {
		result.CategoryTolerancePct = base.CategoryTolerancePct
	}

	result.PhaseToleranceFrac = overlay.PhaseToleranceFrac
	if result.PhaseToleranceFrac == 0 {
		result.PhaseToleranceFrac = base.PhaseToleranceFrac
	}

	result.ReversedMin = overlay.ReversedMin
	if result.ReversedMin == 0 {
		result.ReversedMin = base.ReversedMin
	}

	result.ReversedMax = overlay.ReversedMax
	if result.ReversedMax == 0 {
		result.ReversedMax = base.ReversedMax
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

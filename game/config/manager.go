package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles simulation configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *SimConfig
	configs       map[string]*SimConfig
	mu            sync.RWMutex
}

// cleanName strips the .json suffix and rejects names that would leave the
// config directory
func cleanName(name string) (string, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", errors.Wrapf(ErrInvalidConfig, "invalid config name %q", name)
	}
	return name, nil
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, errors.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*SimConfig),
	}

	m.loadDefaultConfig()
	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*SimConfig, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if cfg, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.configs[name]; exists {
		return cfg, nil
	}

	cfg, err := LoadFile(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = name
	}

	m.configs[name] = cfg
	return cfg, nil
}

// LoadFile reads and validates a single configuration file
func LoadFile(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrConfigNotFound, filepath.Base(path))
		}
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg SimConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s: %v", filepath.Base(path), err)
	}

	return &cfg, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config directory")
	}

	var configs []*ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		cfg, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid configs
			continue
		}

		width, height := cfg.Dimensions()
		configs = append(configs, &ConfigInfo{
			Filename:      entry.Name(),
			ConfigID:      id,
			Name:          cfg.Name,
			Description:   cfg.Description,
			Width:         width,
			Height:        height,
			ObstacleCount: cfg.ObstacleCount,
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *SimConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = cfg
	return nil
}

// RefreshCache drops cached configurations so they are re-read from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*SimConfig)
	m.mu.Unlock()

	m.loadDefaultConfig()
}

// SaveConfig validates and writes a configuration to disk
func (m *Manager) SaveConfig(name string, cfg *SimConfig) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%v", err)
	}

	name, err := cleanName(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filepath.Join(m.configDir, name+".json"), data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	m.mu.Lock()
	m.configs[name] = cfg
	m.mu.Unlock()

	return nil
}

// loadDefaultConfig prefers classic.json, then the first valid file, then Default()
func (m *Manager) loadDefaultConfig() {
	cfg, err := m.LoadConfig("classic")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			cfg = Default()
		} else if cfg, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			cfg = Default()
		}
	}

	m.mu.Lock()
	m.defaultConfig = cfg
	m.mu.Unlock()
}

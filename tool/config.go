package tool

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/progress-uploader/types"
)

const (
	DefaultAgentPort     = 53318
	DefaultTaskRetention = 60 // minutes
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
	configMu      sync.RWMutex
)

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		FormAction:      "",
		UID:             "",
		Port:            DefaultAgentPort,
		SniffContent:    false,
		NotifySocket:    "",
		NotifyWebsocket: true,
		TaskRetention:   DefaultTaskRetention,
	}
}

// LoadConfig reads the yaml config at path, writing a default one when the
// file does not exist yet.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %w", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			setCurrentConfig(cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultAgentPort
	}
	if cfg.TaskRetention <= 0 {
		cfg.TaskRetention = DefaultTaskRetention
	}

	setCurrentConfig(cfg)
	return cfg, nil
}

// ApplyFlags merges CLI flag overrides into cfg.
func ApplyFlags(cfg *types.AppConfig, flags types.Config) {
	if flags.UseFormAction != "" {
		cfg.FormAction = flags.UseFormAction
	}
	if flags.UseUID != "" {
		cfg.UID = flags.UseUID
	}
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseNotifyPath != "" {
		cfg.NotifySocket = flags.UseNotifyPath
	}
	if flags.UseSniff {
		cfg.SniffContent = true
	}
	setCurrentConfig(*cfg)
}

// TaskRetentionDuration converts the configured retention to a duration.
func TaskRetentionDuration(cfg types.AppConfig) time.Duration {
	if cfg.TaskRetention <= 0 {
		return DefaultTaskRetention * time.Minute
	}
	return time.Duration(cfg.TaskRetention) * time.Minute
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func setCurrentConfig(cfg types.AppConfig) {
	configMu.Lock()
	defer configMu.Unlock()
	CurrentConfig = cfg
}

// GetCurrentConfig returns a copy of the active config.
func GetCurrentConfig() types.AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return CurrentConfig
}

// PersistAppConfig updates in-memory AppConfig and writes config.yaml.
func PersistAppConfig(cfg types.AppConfig) error {
	setCurrentConfig(cfg)
	if err := writeConfig(ConfigPath, cfg); err != nil {
		DefaultLogger.Warnf("Failed to persist config: %v", err)
		return err
	}
	return nil
}

/*
Package config manages TOML config for ListPick services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/listpick/internal/utils"
	"github.com/bastiangx/listpick/pkg/index"
	"github.com/bastiangx/listpick/pkg/picker"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Engine    EngineConfig        `toml:"engine"`
	Tokenizer TokenizerConfig     `toml:"tokenizer"`
	Synonyms  map[string][]string `toml:"synonyms"`
	Server    ServerConfig        `toml:"server"`
	CLI       CliConfig           `toml:"cli"`
}

// EngineConfig selects the consumption mode and matching of every picker.
type EngineConfig struct {
	Mode            string `toml:"mode"`
	FilterMode      string `toml:"filter_mode"`
	BufferTimeoutMs int    `toml:"buffer_timeout_ms"`
	CacheSize       int    `toml:"cache_size"`
}

// TokenizerConfig holds label tokenization options.
type TokenizerConfig struct {
	StopWords       []string `toml:"stop_words"`
	DefaultSynonyms bool     `toml:"default_synonyms"`
	SynonymsFile    string   `toml:"synonyms_file"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxQuery      int `toml:"max_query"`
	MaxCandidates int `toml:"max_candidates"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "listpick")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "listpick")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/listpick/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Mode:            picker.ModeLive.String(),
			FilterMode:      "",
			BufferTimeoutMs: int(picker.DefaultBufferTimeout / time.Millisecond),
			CacheSize:       index.DefaultCacheSize,
		},
		Tokenizer: TokenizerConfig{
			StopWords:       append([]string{}, index.DefaultStopWords...),
			DefaultSynonyms: true,
			SynonymsFile:    "",
		},
		Synonyms: map[string][]string{},
		Server: ServerConfig{
			MaxQuery:      60,
			MaxCandidates: 64,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes into the expected
// types and leaves the rest at their defaults.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "tokenizer"); ok {
		extractTokenizerConfig(section, &config.Tokenizer)
	}
	if section, ok := utils.ExtractSection(tempConfig, "synonyms"); ok {
		config.Synonyms = utils.ExtractStringListMap(section)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractString(data, "mode"); ok {
		engine.Mode = val
	}
	if val, ok := utils.ExtractString(data, "filter_mode"); ok {
		engine.FilterMode = val
	}
	if val, ok := utils.ExtractInt64(data, "buffer_timeout_ms"); ok {
		engine.BufferTimeoutMs = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
}

func extractTokenizerConfig(data map[string]any, tok *TokenizerConfig) {
	if val, ok := utils.ExtractStringSlice(data, "stop_words"); ok {
		tok.StopWords = val
	}
	if val, ok := utils.ExtractBool(data, "default_synonyms"); ok {
		tok.DefaultSynonyms = val
	}
	if val, ok := utils.ExtractString(data, "synonyms_file"); ok {
		tok.SynonymsFile = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		server.MaxCandidates = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// PickerConfig converts the engine and tokenizer sections into the
// configuration of one picker. The synonym table is the default country
// table (if enabled), then the inline [synonyms] section, then the
// synonyms file.
func (c *Config) PickerConfig() (picker.Config, error) {
	mode, err := picker.ParseMode(c.Engine.Mode)
	if err != nil {
		return picker.Config{}, fmt.Errorf("engine.mode: %w", err)
	}
	filterMode, err := index.ParseMatchMode(c.Engine.FilterMode)
	if err != nil {
		return picker.Config{}, fmt.Errorf("engine.filter_mode: %w", err)
	}

	var table index.SynonymTable
	if c.Tokenizer.DefaultSynonyms {
		table = index.CountryAliases
	}
	table = table.Merge(index.NewSynonymTable(c.Synonyms))
	if c.Tokenizer.SynonymsFile != "" {
		extra, err := LoadSynonyms(c.Tokenizer.SynonymsFile)
		if err != nil {
			return picker.Config{}, fmt.Errorf("tokenizer.synonyms_file: %w", err)
		}
		table = table.Merge(extra)
	}

	return picker.Config{
		Mode:          mode,
		FilterMode:    filterMode,
		BufferTimeout: time.Duration(c.Engine.BufferTimeoutMs) * time.Millisecond,
		Synonyms:      table,
		StopWords:     c.Tokenizer.StopWords,
		CacheSize:     c.Engine.CacheSize,
	}, nil
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the engine values and saves to file. Nil arguments keep
// their current value. Values are validated before anything is written.
func (c *Config) Update(configPath string, mode, filterMode *string, timeoutMs *int) error {
	engine := c.Engine
	if mode != nil {
		if _, err := picker.ParseMode(*mode); err != nil {
			return err
		}
		engine.Mode = *mode
	}
	if filterMode != nil {
		if _, err := index.ParseMatchMode(*filterMode); err != nil {
			return err
		}
		engine.FilterMode = *filterMode
	}
	if timeoutMs != nil {
		if *timeoutMs <= 0 {
			return fmt.Errorf("buffer timeout must be positive, got %d", *timeoutMs)
		}
		engine.BufferTimeoutMs = *timeoutMs
	}
	c.Engine = engine
	return SaveConfig(c, configPath)
}

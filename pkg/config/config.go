package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Agent backends understood by the agent package.
const (
	BackendEnvelope = "envelope"
	BackendOpenAI   = "openai"
)

// Storage drivers understood by the storage package.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// DefaultStorageKey is the slot that holds the serialized conversation collection.
const DefaultStorageKey = "chatConversations"

// Environment variables that override values from the config file.
const (
	EnvAgentURL     = "AGENTCHAT_AGENT_URL"
	EnvAgentID      = "AGENTCHAT_AGENT_ID"
	EnvOpenAIAPIKey = "AGENTCHAT_OPENAI_API_KEY"
)

// Config represents the application configuration
type Config struct {
	Agent          AgentConfig   `json:"agent"`
	Storage        StorageConfig `json:"storage"`
	StarterPrompts []string      `json:"starter_prompts"`
	LogLevel       string        `json:"log_level"`
	LogFile        string        `json:"log_file"`
	LogFormat      string        `json:"log_format"`
}

// AgentConfig describes the remote agent the chat talks to.
type AgentConfig struct {
	Backend        string       `json:"backend"`
	URL            string       `json:"url"`
	AgentID        string       `json:"agent_id"`
	TimeoutSeconds int          `json:"timeout_seconds"` // 0 waits indefinitely
	OpenAI         OpenAIConfig `json:"openai"`
}

// OpenAIConfig holds settings for an OpenAI-compatible chat completions backend.
type OpenAIConfig struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// StorageConfig selects where conversations are persisted.
type StorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	Key    string `json:"key"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		Agent: AgentConfig{
			Backend:        BackendEnvelope,
			URL:            "http://localhost:8000/api/agent/chat",
			AgentID:        "default-agent",
			TimeoutSeconds: 0,
			OpenAI: OpenAIConfig{
				APIURL:      "https://openrouter.ai/api/v1",
				Model:       "google/gemini-3.0-flash",
				Temperature: 0.7,
				MaxTokens:   2000,
			},
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Path:   defaultDataDir(),
			Key:    DefaultStorageKey,
		},
		StarterPrompts: []string{
			"What can you help me with?",
			"Summarize the latest news in one paragraph.",
			"Explain a complex topic in simple terms.",
			"Help me plan my week.",
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path
// If the file doesn't exist, creates one with default values
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return applyEnv(cfg), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Decoding over the defaults keeps values for fields the file leaves out,
	// while explicit zero values in the file still win.
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		cfg.Storage.Key = DefaultStorageKey
	}

	return applyEnv(cfg), nil
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvAgentURL)); v != "" {
		cfg.Agent.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAgentID)); v != "" {
		cfg.Agent.AgentID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOpenAIAPIKey)); v != "" {
		cfg.Agent.OpenAI.APIKey = v
	}
	return cfg
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	switch c.Agent.Backend {
	case BackendEnvelope:
		if strings.TrimSpace(c.Agent.URL) == "" {
			return fmt.Errorf("agent url is required")
		}
		if strings.TrimSpace(c.Agent.AgentID) == "" {
			return fmt.Errorf("agent_id is required")
		}
	case BackendOpenAI:
		if strings.TrimSpace(c.Agent.OpenAI.APIKey) == "" {
			return fmt.Errorf("openai api_key is required (set in config file or %s)", EnvOpenAIAPIKey)
		}
		if c.Agent.OpenAI.Temperature < 0 || c.Agent.OpenAI.Temperature > 2 {
			return fmt.Errorf("temperature must be between 0 and 2, got: %f", c.Agent.OpenAI.Temperature)
		}
	default:
		return fmt.Errorf("unsupported agent backend: %s", c.Agent.Backend)
	}

	if c.Agent.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got: %d", c.Agent.TimeoutSeconds)
	}

	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage path is required for driver %s", c.Storage.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log_level: %s", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unsupported log_format: %s", c.LogFormat)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".agentchat/config.json"
	}
	return filepath.Join(homeDir, ".agentchat", "config.json")
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".agentchat", "data")
	}
	return filepath.Join(homeDir, ".agentchat", "data")
}

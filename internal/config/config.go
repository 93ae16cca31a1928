package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.example.yaml
var exampleConfig []byte

// Config is the root configuration for prepkit.
type Config struct {
	Backend   BackendConfig
	LLM       LLMConfig
	Interview InterviewConfig
	Research  ResearchConfig
	Media     MediaConfig
	Resume    ResumeConfig
}

// BackendConfig locates the toolkit backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration // per-request timeout
}

// LLMConfig selects the prompt provider.
type LLMConfig struct {
	Provider string // "backend", "gemini" or "openai"
	Model    string
	APIKey   string // expanded from env var by Load
	BaseURL  string // openai only; empty targets the public API
	Timeout  time.Duration
}

// InterviewConfig bounds the interview length.
type InterviewConfig struct {
	MaxFollowUps int
}

// ResearchConfig controls the mock-data fallback.
type ResearchConfig struct {
	FallbackDelay time.Duration
}

// MediaConfig describes the audio recorder.
type MediaConfig struct {
	Command  string
	Args     []string
	Disabled bool
}

// ResumeConfig controls where downloads go.
type ResumeConfig struct {
	DownloadDir string
}

// Provider names accepted in llm.provider.
const (
	ProviderBackend = "backend"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Backend struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"backend"`
	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"llm"`
	Interview struct {
		MaxFollowUps *int `yaml:"max_follow_ups"`
	} `yaml:"interview"`
	Research struct {
		FallbackDelay string `yaml:"fallback_delay"`
	} `yaml:"research"`
	Media struct {
		Command  string   `yaml:"command"`
		Args     []string `yaml:"args"`
		Disabled bool     `yaml:"disabled"`
	} `yaml:"media"`
	Resume struct {
		DownloadDir string `yaml:"download_dir"`
	} `yaml:"resume"`
}

// DefaultPath returns the per-user config location, ~/.config/prepkit/config.yaml
// on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "prepkit.yaml"
	}
	return filepath.Join(dir, "prepkit", "config.yaml")
}

// Default returns the configuration described by the embedded example file.
func Default() *Config {
	cfg, err := parse(exampleConfig)
	if err != nil {
		panic(fmt.Sprintf("parse embedded default config: %v", err))
	}
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parse(data)
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// CreateConfigFile writes the embedded example config to path. It refuses
// to overwrite an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, exampleConfig, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	backendTimeout, err := durationOr(raw.Backend.Timeout, 60*time.Second, "backend.timeout")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := durationOr(raw.LLM.Timeout, 30*time.Second, "llm.timeout")
	if err != nil {
		return nil, err
	}
	fallbackDelay, err := durationOr(raw.Research.FallbackDelay, 2500*time.Millisecond, "research.fallback_delay")
	if err != nil {
		return nil, err
	}

	maxFollowUps := 2 // default
	if raw.Interview.MaxFollowUps != nil {
		maxFollowUps = *raw.Interview.MaxFollowUps
	}

	provider := raw.LLM.Provider
	if provider == "" {
		provider = ProviderBackend
	}
	baseURL := raw.Backend.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	downloadDir := raw.Resume.DownloadDir
	if downloadDir == "" {
		downloadDir = "."
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: baseURL,
			Timeout: backendTimeout,
		},
		LLM: LLMConfig{
			Provider: provider,
			Model:    raw.LLM.Model,
			APIKey:   raw.LLM.APIKey,
			BaseURL:  raw.LLM.BaseURL,
			Timeout:  llmTimeout,
		},
		Interview: InterviewConfig{MaxFollowUps: maxFollowUps},
		Research:  ResearchConfig{FallbackDelay: fallbackDelay},
		Media: MediaConfig{
			Command:  raw.Media.Command,
			Args:     raw.Media.Args,
			Disabled: raw.Media.Disabled,
		},
		Resume: ResumeConfig{DownloadDir: downloadDir},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationOr(s string, def time.Duration, key string) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", key, s, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %v", cfg.Backend.Timeout)
	}
	if cfg.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %v", cfg.LLM.Timeout)
	}

	switch cfg.LLM.Provider {
	case ProviderBackend:
	case ProviderGemini, ProviderOpenAI:
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required when llm.provider is %q", cfg.LLM.Provider)
		}
	default:
		return fmt.Errorf("llm.provider must be one of backend, gemini, openai; got %q", cfg.LLM.Provider)
	}

	if cfg.Interview.MaxFollowUps < 0 {
		return fmt.Errorf("interview.max_follow_ups must not be negative, got %d", cfg.Interview.MaxFollowUps)
	}
	if cfg.Research.FallbackDelay < 0 {
		return fmt.Errorf("research.fallback_delay must not be negative, got %v", cfg.Research.FallbackDelay)
	}

	return nil
}

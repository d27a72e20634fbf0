package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the runtime configuration. Values come from the built-in
// defaults, then the optional TOML file named by RANTIFY_CONFIG, then the
// environment.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Spotify SpotifyConfig `toml:"spotify"`
	LLM     LLMConfig     `toml:"llm"`
}

type ServerConfig struct {
	Port     string `toml:"port"`
	RedisURL string `toml:"redis_url"`
	// RequestTimeout bounds every API request, generation included.
	RequestTimeout Duration `toml:"request_timeout"`
}

type SessionConfig struct {
	Secret      string   `toml:"secret"`
	TTL         Duration `toml:"ttl"`
	RefreshSkew Duration `toml:"refresh_skew"`
}

type SpotifyConfig struct {
	ClientID          string   `toml:"client_id"`
	ClientSecret      string   `toml:"client_secret"`
	RedirectURI       string   `toml:"redirect_uri"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Timeout           Duration `toml:"timeout"`
}

type LLMConfig struct {
	Provider         string `toml:"provider"`
	OpenAIAPIKey     string `toml:"openai_api_key"`
	OpenAIBaseURL    string `toml:"openai_base_url"`
	Model            string `toml:"model"`
	OllamaURL        string `toml:"ollama_url"`
	MaxPromptTokens  int    `toml:"max_prompt_tokens"`
	MaxRetryAttempts int    `toml:"max_retry_attempts"`
}

// Duration lets TOML files use strings like "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "52400",
			RequestTimeout: Duration{2 * time.Minute},
		},
		Session: SessionConfig{
			TTL:         Duration{24 * time.Hour},
			RefreshSkew: Duration{time.Minute},
		},
		Spotify: SpotifyConfig{
			RedirectURI: "http://localhost:52400/auth/callback",
			Timeout:     Duration{10 * time.Second},
		},
		LLM: LLMConfig{
			Provider:         ProviderOpenAI,
			Model:            "gpt-3.5-turbo",
			OllamaURL:        "http://localhost:11434",
			MaxPromptTokens:  12288,
			MaxRetryAttempts: 3,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file and
// the environment. It does not validate the result.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("RANTIFY_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	return cfg, nil
}

// LoadFile overlays the values present in the TOML file at path.
func (c *Config) LoadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("config: could not read %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	envStr(&c.Server.Port, "PORT")
	envStr(&c.Server.RedisURL, "REDIS_URL")
	envDuration(&c.Server.RequestTimeout.Duration, "REQUEST_TIMEOUT")

	envStr(&c.Session.Secret, "SESSION_SECRET")
	envDuration(&c.Session.TTL.Duration, "SESSION_TTL")

	envStr(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	envStr(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	envStr(&c.Spotify.RedirectURI, "SPOTIFY_REDIRECT_URI")
	envFloat(&c.Spotify.RequestsPerSecond, "SPOTIFY_REQUESTS_PER_SECOND")

	envStr(&c.LLM.Provider, "LLM_PROVIDER")
	envStr(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	envStr(&c.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	envStr(&c.LLM.Model, "OPENAI_LLM_MODEL")
	envStr(&c.LLM.OllamaURL, "OLLAMA_URL")
	envInt(&c.LLM.MaxPromptTokens, "LLM_MAX_PROMPT_TOKENS")
	envInt(&c.LLM.MaxRetryAttempts, "LLM_MAX_RETRY_ATTEMPTS")
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is not set"))
	}
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set"))
	}
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
		}
	case ProviderOllama:
		if c.LLM.OllamaURL == "" {
			errs = append(errs, errors.New("OLLAMA_URL is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.LLM.MaxPromptTokens <= 0 {
		errs = append(errs, errors.New("LLM_MAX_PROMPT_TOKENS must be positive"))
	}
	if c.LLM.MaxRetryAttempts <= 0 {
		errs = append(errs, errors.New("LLM_MAX_RETRY_ATTEMPTS must be positive"))
	}
	return errors.Join(errs...)
}

func envStr(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

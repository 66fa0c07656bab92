// Package config loads the cmdex settings: which backend to talk to, which
// model to use, and which personas exist. Configuration is static; it is
// read once at startup and handed to the session.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Expert21/cmdex/errors"
	"github.com/Expert21/cmdex/persona"
)

// Backend names accepted by the llm key.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
	BackendMock   = "mock"
)

type OllamaConfig struct {
	Host    string `yaml:"host"`
	Model   string `yaml:"model"`
	Timeout int    `yaml:"timeout"` // seconds
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type PersonaDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	System      string `yaml:"system"`
}

type PersonasConfig struct {
	Default     string              `yaml:"default"`
	Definitions []PersonaDefinition `yaml:"definitions"`
}

type Config struct {
	LLMClient string         `yaml:"llm"`
	Ollama    OllamaConfig   `yaml:"ollama"`
	OpenAI    OpenAIConfig   `yaml:"openai"`
	Personas  PersonasConfig `yaml:"personas"`
	Debug     bool           `yaml:"debug"`
}

// Load reads configuration from the user's home directory and the current
// working directory, with the latter taking precedence, on top of built-in
// defaults. A missing file is not an error; an unreadable or invalid one is.
func Load() (*Config, error) {
	cfg := defaults()

	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, ".cmdex", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			if err := loadFromFile(userPath, cfg); err != nil {
				return nil, errors.Wrapf(err, "error loading user config")
			}
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "could not get working directory")
	}
	projectPath := filepath.Join(wd, ".cmdex", "config.yaml")
	if _, err := os.Stat(projectPath); err == nil {
		if err := loadFromFile(projectPath, cfg); err != nil {
			return nil, errors.Wrapf(err, "error loading project config")
		}
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		LLMClient: BackendOllama,
		Ollama: OllamaConfig{
			Host:    "http://localhost:11434",
			Model:   "dolphin-phi:2.7b",
			Timeout: 120,
		},
		Personas: PersonasConfig{Default: "general"},
	}
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal overwrites only the fields present in the YAML, which gives
	// a simple merge where project-level config replaces user-level.
	return yaml.Unmarshal(data, cfg)
}

// Model returns the configured model, honoring the CMDEX_MODEL override.
func (c *Config) Model() string {
	if m := os.Getenv("CMDEX_MODEL"); m != "" {
		return m
	}
	return c.Ollama.Model
}

// DefaultPersona returns the default persona name, honoring the
// CMDEX_PERSONA override.
func (c *Config) DefaultPersona() string {
	if p := os.Getenv("CMDEX_PERSONA"); p != "" {
		return p
	}
	return c.Personas.Default
}

// Timeout returns the backend timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.Ollama.Timeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Ollama.Timeout) * time.Second
}

// PersonaDefinitions merges the built-in personas with those from the
// config file. A definition sharing a built-in's name replaces it; new
// names are appended in file order.
func (c *Config) PersonaDefinitions() []persona.Persona {
	defs := persona.Builtin()
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.Name] = i
	}
	for _, d := range c.Personas.Definitions {
		p := persona.Persona{Name: d.Name, Description: d.Description, SystemTemplate: d.System}
		if i, ok := index[d.Name]; ok {
			defs[i] = p
			continue
		}
		defs = append(defs, p)
	}
	return defs
}

// Package config loads the .docchat.yml configuration with DOCCHAT_*
// environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the config file by default.
const DefaultPath = ".docchat.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A double underscore in the variable
// name marks nesting: DOCCHAT_OPENAI__API_KEY sets openai.api_key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("DOCCHAT_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "DOCCHAT_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized backend values.
var validBackends = map[Backend]bool{
	BackendAzure: true,
	BackendLocal: true,
}

var validRetrievalModes = map[string]bool{
	"":        true,
	"text":    true,
	"vectors": true,
	"hybrid":  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("backend is required")
	}
	if !validBackends[c.Backend] {
		return fmt.Errorf("invalid backend %q: must be one of azure, local", c.Backend)
	}

	if c.OpenAI.ChatModel == "" {
		return fmt.Errorf("openai.chat_model is required")
	}

	if c.Backend == BackendAzure {
		if c.OpenAI.Endpoint == "" {
			return fmt.Errorf("openai.endpoint is required for the azure backend")
		}
		if c.OpenAI.ChatDeployment == "" {
			return fmt.Errorf("openai.chat_deployment is required for the azure backend")
		}
		if c.Search.Endpoint == "" {
			return fmt.Errorf("search.endpoint is required for the azure backend")
		}
		if c.Search.Index == "" {
			return fmt.Errorf("search.index is required for the azure backend")
		}
	}

	if c.Backend == BackendLocal && c.Local.DataDir == "" {
		return fmt.Errorf("local.data_dir is required for the local backend")
	}

	if !validRetrievalModes[c.Default.RetrievalMode] {
		return fmt.Errorf("invalid defaults.retrieval_mode %q: must be one of text, vectors, hybrid", c.Default.RetrievalMode)
	}

	if c.Default.Top < 0 {
		return fmt.Errorf("defaults.top must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}

	return nil
}

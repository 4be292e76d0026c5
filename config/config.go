// Package config loads a declarative crew definition from YAML and builds a
// runnable Crew out of it.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AgentConfig declares one agent persona.
type AgentConfig struct {
	Role            string   `yaml:"role" validate:"required"`
	Goal            string   `yaml:"goal" validate:"required"`
	Backstory       string   `yaml:"backstory"`
	AllowDelegation bool     `yaml:"allow_delegation"`
	Verbose         bool     `yaml:"verbose"`
	Tools           []string `yaml:"tools" validate:"dive,oneof=web_search webscraper calculator"`
}

// TaskConfig declares one task and names the agent it is bound to by role.
type TaskConfig struct {
	Description    string `yaml:"description" validate:"required"`
	Agent          string `yaml:"agent" validate:"required"`
	ExpectedOutput string `yaml:"expected_output"`
}

// SearchConfig configures the web_search tool backend.
type SearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	Language   string `yaml:"language"`
	MaxResults int    `yaml:"max_results" validate:"gte=0"`
}

// Config is a full crew definition.
type Config struct {
	Provider      string        `yaml:"provider" validate:"required,oneof=openai anthropic cohere"`
	Model         string        `yaml:"model" validate:"required"`
	Temperature   float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens     int           `yaml:"max_tokens" validate:"gte=0"`
	MaxToolRounds int           `yaml:"max_tool_rounds" validate:"gte=0"`
	OnError       string        `yaml:"on_error" validate:"omitempty,oneof=abort continue"`
	Verbose       bool          `yaml:"verbose"`
	Search        SearchConfig  `yaml:"search"`
	Agents        []AgentConfig `yaml:"agents" validate:"required,min=1,dive"`
	Tasks         []TaskConfig  `yaml:"tasks" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Parse decodes and validates a crew definition from raw YAML.
func Parse(bs []byte) (*Config, error) {
	cfg := new(Config)
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parse crew definition: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid crew definition: %w", err)
	}
	return cfg, nil
}

// Load reads and parses a crew definition file.
func Load(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crew definition: %w", err)
	}
	return Parse(bs)
}

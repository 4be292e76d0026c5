package config

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/bububa/crew-agents/crew"
)

const validDefinition = `
provider: openai
model: gpt-4o-mini
temperature: 0.2
max_tool_rounds: 5
on_error: continue
search:
  base_url: http://localhost:8080
agents:
  - role: Researcher
    goal: Research facts
    backstory: A meticulous analyst.
    tools: [web_search, webscraper]
  - role: Writer
    goal: Write articles
    allow_delegation: true
    tools: [calculator]
tasks:
  - description: Collect facts about Go
    agent: Researcher
  - description: Write an article from the facts
    agent: Writer
    expected_output: Three paragraphs of prose
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(validDefinition))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" {
		t.Errorf("unexpected provider setup: %+v", cfg)
	}
	if len(cfg.Agents) != 2 || len(cfg.Tasks) != 2 {
		t.Errorf("unexpected agents/tasks: %+v", cfg)
	}
	if !cfg.Agents[1].AllowDelegation {
		t.Error("expect writer delegation enabled")
	}
	if cfg.Tasks[1].ExpectedOutput != "Three paragraphs of prose" {
		t.Errorf("unexpected expected output: %q", cfg.Tasks[1].ExpectedOutput)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yml  string
	}{
		{"missing provider", "model: gpt-4o-mini\nagents:\n  - role: A\n    goal: B\ntasks:\n  - description: D\n    agent: A\n"},
		{"bad provider", "provider: gemini\nmodel: m\nagents:\n  - role: A\n    goal: B\ntasks:\n  - description: D\n    agent: A\n"},
		{"no tasks", "provider: openai\nmodel: m\nagents:\n  - role: A\n    goal: B\n"},
		{"unknown tool", "provider: openai\nmodel: m\nagents:\n  - role: A\n    goal: B\n    tools: [time_machine]\ntasks:\n  - description: D\n    agent: A\n"},
		{"agent without goal", "provider: openai\nmodel: m\nagents:\n  - role: A\ntasks:\n  - description: D\n    agent: A\n"},
		{"not yaml", "{provider: [}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse([]byte(c.yml)); err == nil {
				t.Error("expect parse to fail")
			}
		})
	}
}

func TestBuild(t *testing.T) {
	cfg, err := Parse([]byte(validDefinition))
	if err != nil {
		t.Fatal(err)
	}
	team, err := cfg.Build(Credentials{APIKey: "test-key"}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(team.Agents()) != 2 || len(team.Tasks()) != 2 {
		t.Errorf("unexpected crew shape: %d agents, %d tasks", len(team.Agents()), len(team.Tasks()))
	}
	researcher := team.Agents()[0]
	if researcher.Tool("web_search") == nil || researcher.Tool("webscraper") == nil {
		t.Error("expect researcher tools wired")
	}
	if team.Tasks()[0].Agent() != researcher {
		t.Error("expect task bound to researcher by role")
	}
}

func TestBuildMissingAPIKey(t *testing.T) {
	cfg, err := Parse([]byte(validDefinition))
	if err != nil {
		t.Fatal(err)
	}
	_, err = cfg.Build(Credentials{}, zap.NewNop())
	var cfgErr *crew.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expect ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "api_key" {
		t.Errorf("expect api_key field, got %q", cfgErr.Field)
	}
}

func TestBuildUnknownTaskAgent(t *testing.T) {
	cfg, err := Parse([]byte(validDefinition))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Tasks[0].Agent = "Ghost"
	var cfgErr *crew.ConfigurationError
	if _, err := cfg.Build(Credentials{APIKey: "test-key"}, zap.NewNop()); !errors.As(err, &cfgErr) {
		t.Fatalf("expect ConfigurationError for unknown role, got %v", err)
	}
}

func TestBuildSearchRequiresBaseURL(t *testing.T) {
	cfg, err := Parse([]byte(validDefinition))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Search.BaseURL = ""
	var cfgErr *crew.ConfigurationError
	if _, err := cfg.Build(Credentials{APIKey: "test-key"}, zap.NewNop()); !errors.As(err, &cfgErr) {
		t.Fatalf("expect ConfigurationError for missing search base url, got %v", err)
	}
	if cfgErr.Field != "search.base_url" {
		t.Errorf("unexpected field: %q", cfgErr.Field)
	}
}

package config

import (
	"go.uber.org/zap"

	"github.com/bububa/instructor-go/pkg/instructor"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"
	cohereOption "github.com/cohere-ai/cohere-go/v2/option"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/crew-agents/crew"
	"github.com/bububa/crew-agents/reasoning"
	"github.com/bububa/crew-agents/tools"
	"github.com/bububa/crew-agents/tools/calculator"
	"github.com/bububa/crew-agents/tools/searxng"
	"github.com/bububa/crew-agents/tools/webscraper"
)

// Credentials carries the secrets a crew definition must not embed.
type Credentials struct {
	// APIKey authenticates against the configured provider.
	APIKey string
	// BaseURL overrides the provider endpoint when non-empty.
	BaseURL string
}

// Build assembles a runnable Crew from the definition. Credentials come from
// the caller, never from the YAML.
func (c *Config) Build(creds Credentials, logger *zap.Logger) (*crew.Crew, error) {
	if creds.APIKey == "" {
		return nil, &crew.ConfigurationError{Field: "api_key", Reason: "missing credential for provider " + c.Provider}
	}
	engineOpts := []reasoning.EngineOption{
		reasoning.WithModel(c.Model),
		reasoning.WithTemperature(c.Temperature),
	}
	if c.MaxTokens > 0 {
		engineOpts = append(engineOpts, reasoning.WithMaxTokens(c.MaxTokens))
	}
	engine := reasoning.Serialized(reasoning.NewInstructorEngine(c.newInstructor(creds), engineOpts...))

	byRole := make(map[string]*crew.Agent, len(c.Agents))
	agents := make([]*crew.Agent, 0, len(c.Agents))
	for _, ac := range c.Agents {
		held := make([]tools.Callable, 0, len(ac.Tools))
		for _, name := range ac.Tools {
			tool, err := c.newTool(name)
			if err != nil {
				return nil, err
			}
			held = append(held, tool)
		}
		agent, err := crew.NewAgent(ac.Role, ac.Goal,
			crew.WithBackstory(ac.Backstory),
			crew.WithDelegation(ac.AllowDelegation),
			crew.WithTools(held...),
			crew.WithAgentVerbose(ac.Verbose),
		)
		if err != nil {
			return nil, err
		}
		if _, exists := byRole[ac.Role]; exists {
			return nil, &crew.ConfigurationError{Field: "agents", Reason: "duplicate role " + ac.Role}
		}
		byRole[ac.Role] = agent
		agents = append(agents, agent)
	}

	tasks := make([]*crew.Task, 0, len(c.Tasks))
	for _, tc := range c.Tasks {
		agent, ok := byRole[tc.Agent]
		if !ok {
			return nil, &crew.ConfigurationError{Field: "tasks", Reason: "unknown agent role " + tc.Agent}
		}
		task, err := crew.NewTask(tc.Description, agent, crew.WithExpectedOutput(tc.ExpectedOutput))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	crewOpts := []crew.Option{
		crew.WithAgents(agents...),
		crew.WithTasks(tasks...),
		crew.WithVerbose(c.Verbose),
		crew.WithLogger(logger),
	}
	if c.MaxToolRounds > 0 {
		crewOpts = append(crewOpts, crew.WithMaxToolRounds(c.MaxToolRounds))
	}
	if c.OnError != "" {
		crewOpts = append(crewOpts, crew.WithErrorPolicy(crew.ErrorPolicy(c.OnError)))
	}
	return crew.New(engine, crewOpts...)
}

func (c *Config) newInstructor(creds Credentials) instructor.Instructor {
	switch c.Provider {
	case "anthropic":
		opts := make([]anthropic.ClientOption, 0, 1)
		if creds.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(creds.BaseURL))
		}
		clt := anthropic.NewClient(creds.APIKey, opts...)
		return instructor.FromAnthropic(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation())
	case "cohere":
		opts := make([]cohereOption.RequestOption, 0, 2)
		opts = append(opts, cohereOption.WithToken(creds.APIKey))
		if creds.BaseURL != "" {
			opts = append(opts, cohereOption.WithBaseURL(creds.BaseURL))
		}
		clt := cohereClient.NewClient(opts...)
		return instructor.FromCohere(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation())
	default:
		cfg := openai.DefaultConfig(creds.APIKey)
		if creds.BaseURL != "" {
			cfg.BaseURL = creds.BaseURL
		}
		clt := openai.NewClientWithConfig(cfg)
		return instructor.FromOpenAI(clt, instructor.WithMode(instructor.ModeJSON), instructor.WithMaxRetries(3), instructor.WithValidation())
	}
}

func (c *Config) newTool(name string) (tools.Callable, error) {
	switch name {
	case "web_search":
		if c.Search.BaseURL == "" {
			return nil, &crew.ConfigurationError{Field: "search.base_url", Reason: "required by the web_search tool"}
		}
		opts := []searxng.Option{searxng.WithBaseURL(c.Search.BaseURL)}
		if c.Search.Language != "" {
			opts = append(opts, searxng.WithLanguage(c.Search.Language))
		}
		if c.Search.MaxResults > 0 {
			opts = append(opts, searxng.WithMaxResults(c.Search.MaxResults))
		}
		return tools.Caller[searxng.Input, searxng.Output](searxng.New(opts...)), nil
	case "webscraper":
		return tools.Caller[webscraper.Input, webscraper.Output](webscraper.New()), nil
	case "calculator":
		return tools.Caller[calculator.Input, calculator.Output](calculator.New()), nil
	default:
		return nil, &crew.ConfigurationError{Field: "tools", Reason: "unknown tool " + name}
	}
}

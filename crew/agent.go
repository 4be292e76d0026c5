// Package crew implements role-based multi-agent orchestration: agents are
// persona descriptors, tasks are units of natural language work bound to one
// agent each, and a Crew executes the tasks sequentially against an injected
// reasoning engine with bounded tool use and optional delegation.
package crew

import (
	"github.com/bububa/crew-agents/tools"
)

// Agent is a passive persona descriptor consumed by the orchestration loop.
// It holds no behavior beyond exposing its identity and capabilities. Two
// agents may share a role string; identity is reference identity.
type Agent struct {
	role            string
	goal            string
	backstory       string
	allowDelegation bool
	tools           []tools.Callable
	verbose         bool
}

// NewAgent returns a new Agent. Role and goal must be non-empty.
func NewAgent(role, goal string, options ...AgentOption) (*Agent, error) {
	if role == "" {
		return nil, &ConfigurationError{Field: "role", Reason: "must not be empty"}
	}
	if goal == "" {
		return nil, &ConfigurationError{Field: "goal", Reason: "must not be empty"}
	}
	ret := &Agent{
		role: role,
		goal: goal,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

// Role returns the agent role
func (a *Agent) Role() string {
	return a.role
}

// Goal returns the agent goal
func (a *Agent) Goal() string {
	return a.goal
}

// Backstory returns the agent backstory
func (a *Agent) Backstory() string {
	return a.backstory
}

// AllowDelegation reports whether the agent may hand work to coworkers.
func (a *Agent) AllowDelegation() bool {
	return a.allowDelegation
}

// Tools returns the agent's capability list in declaration order.
func (a *Agent) Tools() []tools.Callable {
	return a.tools
}

// SetTools replaces the agent's capability list. The change takes effect on
// the next task execution involving this agent; do not call it while a
// kickoff using this agent is in flight.
func (a *Agent) SetTools(list ...tools.Callable) {
	a.tools = list
}

// Tool returns the named tool, or nil when the agent does not hold it.
func (a *Agent) Tool(name string) tools.Callable {
	for _, t := range a.tools {
		if t.Title() == name {
			return t
		}
	}
	return nil
}

type AgentOption func(a *Agent)

// WithBackstory set the agent backstory
func WithBackstory(backstory string) AgentOption {
	return func(a *Agent) {
		a.backstory = backstory
	}
}

// WithDelegation set whether the agent may delegate work
func WithDelegation(allow bool) AgentOption {
	return func(a *Agent) {
		a.allowDelegation = allow
	}
}

// WithTools set the agent capability list
func WithTools(list ...tools.Callable) AgentOption {
	return func(a *Agent) {
		a.tools = list
	}
}

// WithAgentVerbose set per-agent verbose logging
func WithAgentVerbose(verbose bool) AgentOption {
	return func(a *Agent) {
		a.verbose = verbose
	}
}

package persona

import "github.com/bububa/crew-agents/components/systemprompt"

type Option = func(g *Generator)

// WithRole set Generator role
func WithRole(role string) Option {
	return func(g *Generator) {
		g.role = role
	}
}

// WithGoal set Generator goal
func WithGoal(goal string) Option {
	return func(g *Generator) {
		g.goal = goal
	}
}

// WithBackstory set Generator backstory
func WithBackstory(backstory string) Option {
	return func(g *Generator) {
		g.backstory = backstory
	}
}

// WithInstructs set Generator output instructions
func WithInstructs(instructs []string) Option {
	return func(g *Generator) {
		g.instructs = instructs
	}
}

// WithContextProviders set Generator context providers
func WithContextProviders(providers ...systemprompt.ContextProvider) Option {
	return func(g *Generator) {
		g.AddContextProviders(providers...)
	}
}

package crew

import "go.uber.org/zap"

type Option func(c *Crew)

// WithAgents set the crew agents
func WithAgents(agents ...*Agent) Option {
	return func(c *Crew) {
		c.agents = agents
	}
}

// WithTasks set the crew tasks
func WithTasks(tasks ...*Task) Option {
	return func(c *Crew) {
		c.tasks = tasks
	}
}

// WithSelector set the delegation selector strategy
func WithSelector(s Selector) Option {
	return func(c *Crew) {
		c.selector = s
	}
}

// WithErrorPolicy set what a kickoff does with a failed task
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *Crew) {
		c.policy = p
	}
}

// WithMaxToolRounds set the per-task cap on tool call and delegation rounds
func WithMaxToolRounds(n int) Option {
	return func(c *Crew) {
		if n > 0 {
			c.maxToolRounds = n
		}
	}
}

// WithVerbose set verbose run logging
func WithVerbose(verbose bool) Option {
	return func(c *Crew) {
		c.verbose = verbose
	}
}

// WithLogger set the crew logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Crew) {
		if logger != nil {
			c.logger = logger
		}
	}
}

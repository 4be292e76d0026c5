package crew

// Task is a unit of natural language work bound to exactly one agent. The
// agent is shared, not owned: it may outlive the task and serve other tasks.
type Task struct {
	description    string
	agent          *Agent
	expectedOutput string
}

// NewTask returns a new Task. The agent may be nil at construction time, but
// a kickoff over a task with no agent fails with UnboundTaskError.
func NewTask(description string, agent *Agent, options ...TaskOption) (*Task, error) {
	if description == "" {
		return nil, &ConfigurationError{Field: "description", Reason: "must not be empty"}
	}
	ret := &Task{
		description: description,
		agent:       agent,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

// Description returns the task description
func (t *Task) Description() string {
	return t.description
}

// Agent returns the bound agent, or nil.
func (t *Task) Agent() *Agent {
	return t.agent
}

// SetAgent binds the task to an agent.
func (t *Task) SetAgent(a *Agent) {
	t.agent = a
}

// ExpectedOutput returns the optional hint on the desired answer shape.
func (t *Task) ExpectedOutput() string {
	return t.expectedOutput
}

type TaskOption func(t *Task)

// WithExpectedOutput set a hint on the desired answer shape
func WithExpectedOutput(expected string) TaskOption {
	return func(t *Task) {
		t.expectedOutput = expected
	}
}

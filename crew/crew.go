package crew

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/bububa/crew-agents/components"
	"github.com/bububa/crew-agents/reasoning"
	"github.com/bububa/crew-agents/schema"
)

// ErrorPolicy decides what a kickoff does with a failed task.
type ErrorPolicy string

const (
	// PolicyAbort stops the kickoff at the first failed task.
	PolicyAbort ErrorPolicy = "abort"
	// PolicyContinue records a per-task failure marker and proceeds.
	PolicyContinue ErrorPolicy = "continue"
)

// DefaultMaxToolRounds caps tool call and delegation rounds per task.
const DefaultMaxToolRounds = 8

// Crew executes a sequence of tasks against their bound agents. The Crew
// value is read-only during a run; all per-run state is local to Kickoff, so
// concurrent Kickoff calls on the same Crew are safe.
type Crew struct {
	engine        reasoning.Engine
	agents        []*Agent
	tasks         []*Task
	selector      Selector
	policy        ErrorPolicy
	maxToolRounds int
	verbose       bool
	logger        *zap.Logger

	runs         atomic.Int64
	inputTokens  atomic.Int64
	outputTokens atomic.Int64
}

// New returns a new Crew driven by the given reasoning engine.
func New(engine reasoning.Engine, options ...Option) (*Crew, error) {
	if engine == nil {
		return nil, &ConfigurationError{Field: "engine", Reason: "must not be nil"}
	}
	ret := &Crew{
		engine:        engine,
		selector:      NewRoleSimilaritySelector(),
		policy:        PolicyAbort,
		maxToolRounds: DefaultMaxToolRounds,
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}

// Agents returns the crew's agents in declaration order.
func (c *Crew) Agents() []*Agent {
	return c.agents
}

// Tasks returns the crew's tasks in declaration order.
func (c *Crew) Tasks() []*Task {
	return c.tasks
}

// Stats is the cumulative accounting across all kickoffs of this Crew.
type Stats struct {
	Runs         int64
	InputTokens  int64
	OutputTokens int64
}

// Stats returns cumulative run and token counters. Safe to call concurrently
// with running kickoffs.
func (c *Crew) Stats() Stats {
	return Stats{
		Runs:         c.runs.Load(),
		InputTokens:  c.inputTokens.Load(),
		OutputTokens: c.outputTokens.Load(),
	}
}

// runState is the transient state of one kickoff. It lives on the Kickoff
// stack, never on the Crew.
type runState struct {
	id string
	// rounds counts tool calls and delegations of the current task,
	// including rounds spent by delegates.
	rounds int
	mem    *components.Memory
	usage  components.LLMUsage
}

func (st *runState) mergeUsage(resp *components.LLMResponse) {
	if resp != nil {
		st.usage.Merge(resp.Usage)
	}
}

// Kickoff runs the crew's task sequence once and returns the aggregated
// result. Tasks execute strictly in declaration order; a later task's prompt
// context includes earlier task outputs.
func (c *Crew) Kickoff(ctx context.Context) (*Result, error) {
	if len(c.tasks) == 0 {
		return nil, &ConfigurationError{Field: "tasks", Reason: "crew has no tasks"}
	}
	st := &runState{
		id: uuid.NewString(),
	}
	result := &Result{
		RunID:       st.id,
		TaskResults: make([]TaskResult, 0, len(c.tasks)),
	}
	logger := c.logger.With(zap.String("run_id", st.id))
	if c.verbose {
		logger.Info("kickoff started", zap.Int("tasks", len(c.tasks)))
	}
	var taskContext []string
	for idx, task := range c.tasks {
		tr := TaskResult{
			TaskIndex:   idx,
			Description: task.description,
		}
		st.rounds = 0
		st.mem = components.NewMemory(0)
		st.mem.NewTurn()
		if task.agent == nil {
			tr.Err = &UnboundTaskError{TaskIndex: idx}
		} else {
			tr.Role = task.agent.role
			if c.verbose {
				logger.Info("task started", zap.Int("task", idx), zap.String("role", task.agent.role))
			}
			output, err := c.runTask(ctx, st, logger, idx, task.agent, task.description, task.expectedOutput, taskContext, nil)
			if err != nil {
				tr.Err = err
			} else {
				tr.Output = output
				taskContext = append(taskContext, fmt.Sprintf("Task %d (%s): %s", idx, task.agent.role, output))
				result.Raw = output
			}
		}
		tr.Transcript = st.mem.History()
		result.TaskResults = append(result.TaskResults, tr)
		if tr.Err != nil {
			logger.Warn("task failed", zap.Int("task", idx), zap.Error(tr.Err))
			if c.policy == PolicyAbort {
				c.recordRun(st)
				result.Usage = st.usage
				return result, tr.Err
			}
			continue
		}
		if c.verbose {
			logger.Info("task finished", zap.Int("task", idx))
		}
	}
	result.Usage = st.usage
	c.recordRun(st)
	if c.verbose {
		logger.Info("kickoff finished",
			zap.Int64("input_tokens", st.usage.InputTokens),
			zap.Int64("output_tokens", st.usage.OutputTokens))
	}
	return result, nil
}

func (c *Crew) recordRun(st *runState) {
	c.runs.Inc()
	c.inputTokens.Add(st.usage.InputTokens)
	c.outputTokens.Add(st.usage.OutputTokens)
}

// runTask drives the reasoning loop of one task under one agent. Delegated
// work recurses here under the delegate's persona, sharing the task's round
// budget so the run always terminates.
func (c *Crew) runTask(ctx context.Context, st *runState, logger *zap.Logger, taskIdx int, ag *Agent, description, expectedOutput string, taskContext []string, chain []*Agent) (string, error) {
	req := &reasoning.Request{
		Role:           ag.role,
		Goal:           ag.goal,
		Backstory:      ag.backstory,
		Task:           description,
		ExpectedOutput: expectedOutput,
		Context:        taskContext,
		Tools:          toolSpecs(ag),
	}
	if ag.allowDelegation {
		req.Delegates = c.delegateSpecs(ag, chain)
	}
	st.mem.NewMessage(components.UserRole, schema.NewString(description))
	for {
		if err := ctx.Err(); err != nil {
			return "", &ReasoningEngineError{TaskIndex: taskIdx, Role: ag.role, Err: err}
		}
		resp := new(components.LLMResponse)
		action, err := c.engine.Reason(ctx, req, resp)
		st.mergeUsage(resp)
		if err != nil {
			return "", &ReasoningEngineError{TaskIndex: taskIdx, Role: ag.role, Err: err}
		}
		st.mem.NewMessage(components.AssistantRole, *action)
		if c.verbose || ag.verbose {
			logger.Info("action",
				zap.Int("task", taskIdx),
				zap.String("role", ag.role),
				zap.String("type", action.Type),
				zap.Int("round", st.rounds))
		}
		switch action.Type {
		case reasoning.ActionFinalAnswer:
			return action.Answer, nil
		case reasoning.ActionUseTool:
			if st.rounds >= c.maxToolRounds {
				return "", &ToolCallLimitExceeded{TaskIndex: taskIdx, Role: ag.role, Limit: c.maxToolRounds}
			}
			st.rounds++
			tool := ag.Tool(action.Tool)
			if tool == nil {
				return "", &ToolInvocationError{TaskIndex: taskIdx, Role: ag.role, Tool: action.Tool, Err: errUnknownTool}
			}
			observation, err := tool.Call(ctx, []byte(action.ToolInput))
			if err != nil {
				return "", &ToolInvocationError{TaskIndex: taskIdx, Role: ag.role, Tool: action.Tool, Err: err}
			}
			st.mem.NewMessage(components.ToolRole, schema.NewString(observation))
			req.Steps = append(req.Steps, reasoning.Step{Action: *action, Observation: observation})
		case reasoning.ActionDelegate:
			if st.rounds >= c.maxToolRounds {
				return "", &ToolCallLimitExceeded{TaskIndex: taskIdx, Role: ag.role, Limit: c.maxToolRounds}
			}
			st.rounds++
			if !ag.allowDelegation {
				denied := &DelegationDeniedError{TaskIndex: taskIdx, Role: ag.role, Delegate: action.DelegateRole}
				logger.Warn("delegation denied", zap.Int("task", taskIdx), zap.String("role", ag.role), zap.String("delegate", action.DelegateRole))
				req.Steps = append(req.Steps, reasoning.Step{
					Action:      *action,
					Observation: denied.Error() + " Answer the task yourself.",
				})
				continue
			}
			delegate := c.selector.Select(action.DelegateRole, c.delegateCandidates(ag, chain))
			if delegate == nil {
				req.Steps = append(req.Steps, reasoning.Step{
					Action:      *action,
					Observation: fmt.Sprintf("No coworker matches role %q. Answer the task yourself.", action.DelegateRole),
				})
				continue
			}
			subTask := action.DelegateTask
			if subTask == "" {
				subTask = description
			}
			if c.verbose || ag.verbose {
				logger.Info("delegating", zap.Int("task", taskIdx), zap.String("from", ag.role), zap.String("to", delegate.role))
			}
			output, err := c.runTask(ctx, st, logger, taskIdx, delegate, subTask, "", taskContext, append(chain, ag))
			if err != nil {
				return "", err
			}
			req.Steps = append(req.Steps, reasoning.Step{
				Action:      *action,
				Observation: fmt.Sprintf("%s answered: %s", delegate.role, output),
			})
		default:
			return "", &ReasoningEngineError{TaskIndex: taskIdx, Role: ag.role, Err: fmt.Errorf("unknown action type %q", action.Type)}
		}
	}
}

// delegateCandidates returns crew agents eligible as delegation targets for
// ag: everyone in the crew except ag itself and agents already in the active
// delegation chain.
func (c *Crew) delegateCandidates(ag *Agent, chain []*Agent) []*Agent {
	out := make([]*Agent, 0, len(c.agents))
	for _, candidate := range c.agents {
		if candidate == ag || inChain(candidate, chain) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func (c *Crew) delegateSpecs(ag *Agent, chain []*Agent) []reasoning.DelegateSpec {
	candidates := c.delegateCandidates(ag, chain)
	out := make([]reasoning.DelegateSpec, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, reasoning.DelegateSpec{Role: candidate.role, Goal: candidate.goal})
	}
	return out
}

func inChain(ag *Agent, chain []*Agent) bool {
	for _, v := range chain {
		if v == ag {
			return true
		}
	}
	return false
}

func toolSpecs(ag *Agent) []reasoning.ToolSpec {
	out := make([]reasoning.ToolSpec, 0, len(ag.tools))
	for _, t := range ag.tools {
		out = append(out, reasoning.ToolSpec{Name: t.Title(), Description: t.Description()})
	}
	return out
}

var errUnknownTool = errors.New("tool not held by agent")

package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bububa/crew-agents/components"
	"github.com/bububa/crew-agents/reasoning"
	"github.com/bububa/crew-agents/tools"
)

// scriptEngine replays a fixed queue of actions per role and records every
// request it has seen.
type scriptEngine struct {
	script   map[string][]*reasoning.Action
	requests []reasoning.Request
	mtx      sync.Mutex
}

func newScriptEngine() *scriptEngine {
	return &scriptEngine{script: make(map[string][]*reasoning.Action)}
}

func (e *scriptEngine) add(role string, actions ...*reasoning.Action) {
	e.script[role] = append(e.script[role], actions...)
}

func (e *scriptEngine) Reason(ctx context.Context, req *reasoning.Request, resp *components.LLMResponse) (*reasoning.Action, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.requests = append(e.requests, *req)
	queue := e.script[req.Role]
	if len(queue) == 0 {
		return nil, fmt.Errorf("no scripted action for role %q", req.Role)
	}
	action := queue[0]
	e.script[req.Role] = queue[1:]
	if resp != nil {
		resp.Usage = &components.LLMUsage{InputTokens: 10, OutputTokens: 5}
	}
	return action, nil
}

// loopEngine always answers with the same action.
type loopEngine struct {
	action *reasoning.Action
	calls  int
}

func (e *loopEngine) Reason(ctx context.Context, req *reasoning.Request, resp *components.LLMResponse) (*reasoning.Action, error) {
	e.calls++
	return e.action, nil
}

type stubTool struct {
	tools.Config
	lastInput []byte
	output    string
	err       error
	calls     int
}

func newStubTool(name, output string) *stubTool {
	t := &stubTool{output: output}
	t.SetTitle(name)
	t.SetDescription("stub tool")
	return t
}

func (t *stubTool) Call(ctx context.Context, input []byte) (string, error) {
	t.calls++
	t.lastInput = input
	return t.output, t.err
}

func finalAnswer(answer string) *reasoning.Action {
	return &reasoning.Action{Type: reasoning.ActionFinalAnswer, Answer: answer}
}

func TestKickoffFinalAnswer(t *testing.T) {
	agent, err := NewAgent("Assistant", "Answer questions")
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Say X", agent)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("Assistant", finalAnswer("X"))
	c, err := New(engine, WithAgents(agent), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.Kickoff(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Raw != "X" {
		t.Errorf("expect raw output X, got %q", result.Raw)
	}
	if len(result.TaskResults) != 1 || result.TaskResults[0].Output != "X" {
		t.Errorf("unexpected task results: %+v", result.TaskResults)
	}
	if result.Usage.InputTokens != 10 || result.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage: %+v", result.Usage)
	}
}

func TestKickoffUnboundTask(t *testing.T) {
	task, err := NewTask("orphan work", nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(newScriptEngine(), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Kickoff(context.Background())
	var unbound *UnboundTaskError
	if !errors.As(err, &unbound) {
		t.Fatalf("expect UnboundTaskError, got %v", err)
	}
	if unbound.TaskIndex != 0 {
		t.Errorf("expect task index 0, got %d", unbound.TaskIndex)
	}
}

func TestKickoffDelegation(t *testing.T) {
	writer, err := NewAgent("Writer", "Write articles", WithDelegation(true))
	if err != nil {
		t.Fatal(err)
	}
	researcher, err := NewAgent("Researcher", "Research facts")
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Write about Go", writer)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("Writer",
		&reasoning.Action{Type: reasoning.ActionDelegate, DelegateRole: "Researcher", DelegateTask: "Collect facts about Go"},
		finalAnswer("Article based on: facts about Go"),
	)
	engine.add("Researcher", finalAnswer("facts about Go"))
	c, err := New(engine, WithAgents(writer, researcher), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.Kickoff(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.Raw, "facts about Go") {
		t.Errorf("expect researcher output in result, got %q", result.Raw)
	}
	// the writer's second request carries the researcher's answer as an observation
	var sawObservation bool
	for _, req := range engine.requests {
		for _, step := range req.Steps {
			if strings.Contains(step.Observation, "Researcher answered: facts about Go") {
				sawObservation = true
			}
		}
	}
	if !sawObservation {
		t.Error("delegation observation never surfaced to the writer")
	}
}

func TestDelegationDenied(t *testing.T) {
	solo, err := NewAgent("Solo", "Work alone")
	if err != nil {
		t.Fatal(err)
	}
	other, err := NewAgent("Other", "Other goal")
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Do the work", solo)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("Solo",
		&reasoning.Action{Type: reasoning.ActionDelegate, DelegateRole: "Other"},
		finalAnswer("done alone"),
	)
	engine.add("Other", finalAnswer("should never run"))
	c, err := New(engine, WithAgents(solo, other), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.Kickoff(context.Background())
	if err != nil {
		t.Fatalf("denied delegation must not fail the task: %v", err)
	}
	if result.Raw != "done alone" {
		t.Errorf("expect fallback answer, got %q", result.Raw)
	}
	if len(engine.script["Other"]) != 1 {
		t.Error("delegation executed despite allow_delegation=false")
	}
	var sawDenied bool
	for _, req := range engine.requests {
		for _, step := range req.Steps {
			if strings.Contains(step.Observation, "not permitted to delegate") {
				sawDenied = true
			}
		}
	}
	if !sawDenied {
		t.Error("denied delegation never surfaced as an observation")
	}
}

func TestToolInvocation(t *testing.T) {
	search := newStubTool("web_search", "search says hi")
	agent, err := NewAgent("Researcher", "Research facts", WithTools(search))
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Find a greeting", agent)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("Researcher",
		&reasoning.Action{Type: reasoning.ActionUseTool, Tool: "web_search", ToolInput: `{"queries":["greeting"]}`},
		finalAnswer("greeting found"),
	)
	c, err := New(engine, WithAgents(agent), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Kickoff(context.Background()); err != nil {
		t.Fatal(err)
	}
	if search.calls != 1 {
		t.Fatalf("expect 1 tool call, got %d", search.calls)
	}
	if string(search.lastInput) != `{"queries":["greeting"]}` {
		t.Errorf("tool received wrong input: %s", search.lastInput)
	}
}

func TestUnknownTool(t *testing.T) {
	agent, err := NewAgent("Researcher", "Research facts")
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Find facts", agent)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("Researcher", &reasoning.Action{Type: reasoning.ActionUseTool, Tool: "missing"})
	c, err := New(engine, WithAgents(agent), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Kickoff(context.Background())
	var toolErr *ToolInvocationError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expect ToolInvocationError, got %v", err)
	}
	if toolErr.Tool != "missing" || toolErr.Role != "Researcher" {
		t.Errorf("error lacks context: %+v", toolErr)
	}
}

func TestToolRoundCap(t *testing.T) {
	search := newStubTool("web_search", "more results")
	agent, err := NewAgent("Researcher", "Research forever", WithTools(search))
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Never stop", agent)
	if err != nil {
		t.Fatal(err)
	}
	engine := &loopEngine{action: &reasoning.Action{Type: reasoning.ActionUseTool, Tool: "web_search"}}
	c, err := New(engine, WithAgents(agent), WithTasks(task), WithMaxToolRounds(3))
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Kickoff(context.Background())
	var capErr *ToolCallLimitExceeded
	if !errors.As(err, &capErr) {
		t.Fatalf("expect ToolCallLimitExceeded, got %v", err)
	}
	if capErr.Limit != 3 {
		t.Errorf("expect limit 3, got %d", capErr.Limit)
	}
	if search.calls != 3 {
		t.Errorf("expect exactly 3 tool calls before the cap, got %d", search.calls)
	}
}

func TestKickoffTwiceIndependent(t *testing.T) {
	agent, err := NewAgent("Assistant", "Answer questions")
	if err != nil {
		t.Fatal(err)
	}
	task, err := NewTask("Say X", agent)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("Assistant", finalAnswer("X"), finalAnswer("X"))
	c, err := New(engine, WithAgents(agent), WithTasks(task))
	if err != nil {
		t.Fatal(err)
	}
	first, err := c.Kickoff(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Kickoff(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == second.RunID {
		t.Error("expect distinct run IDs")
	}
	if first.Raw != second.Raw {
		t.Errorf("expect identical outputs, got %q vs %q", first.Raw, second.Raw)
	}
	if stats := c.Stats(); stats.Runs != 2 {
		t.Errorf("expect 2 recorded runs, got %d", stats.Runs)
	}
}

func TestPolicyContinue(t *testing.T) {
	broken, err := NewAgent("Broken", "Fail")
	if err != nil {
		t.Fatal(err)
	}
	solid, err := NewAgent("Solid", "Succeed")
	if err != nil {
		t.Fatal(err)
	}
	taskA, err := NewTask("fail here", broken)
	if err != nil {
		t.Fatal(err)
	}
	taskB, err := NewTask("succeed here", solid)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	// no script for Broken: its reasoning step errors out
	engine.add("Solid", finalAnswer("still here"))
	c, err := New(engine, WithAgents(broken, solid), WithTasks(taskA, taskB), WithErrorPolicy(PolicyContinue))
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.Kickoff(context.Background())
	if err != nil {
		t.Fatalf("continue policy must not abort: %v", err)
	}
	if !result.TaskResults[0].Failed() {
		t.Error("expect first task recorded as failed")
	}
	var engineErr *ReasoningEngineError
	if !errors.As(result.TaskResults[0].Err, &engineErr) {
		t.Errorf("expect ReasoningEngineError marker, got %v", result.TaskResults[0].Err)
	}
	if result.Raw != "still here" {
		t.Errorf("expect second task output, got %q", result.Raw)
	}
	if !result.Failed() {
		t.Error("result must report the recorded failure")
	}
}

func TestTaskContextFlows(t *testing.T) {
	a, err := NewAgent("First", "Go first")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewAgent("Second", "Go second")
	if err != nil {
		t.Fatal(err)
	}
	taskA, err := NewTask("produce a number", a)
	if err != nil {
		t.Fatal(err)
	}
	taskB, err := NewTask("use the number", b)
	if err != nil {
		t.Fatal(err)
	}
	engine := newScriptEngine()
	engine.add("First", finalAnswer("42"))
	engine.add("Second", finalAnswer("doubled: 84"))
	c, err := New(engine, WithAgents(a, b), WithTasks(taskA, taskB))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Kickoff(context.Background()); err != nil {
		t.Fatal(err)
	}
	var sawContext bool
	for _, req := range engine.requests {
		if req.Role != "Second" {
			continue
		}
		for _, v := range req.Context {
			if strings.Contains(v, "42") {
				sawContext = true
			}
		}
	}
	if !sawContext {
		t.Error("second task never saw the first task's output")
	}
}

func TestKickoffNoTasks(t *testing.T) {
	c, err := New(newScriptEngine())
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Kickoff(context.Background())
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expect ConfigurationError, got %v", err)
	}
}

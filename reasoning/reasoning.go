// Package reasoning defines the strategy interface between a crew and the
// external intelligence that drives it. An Engine receives the persona and
// task context of one reasoning step and answers with a single Action:
// finish the task, invoke a tool, or delegate to a coworker.
package reasoning

import (
	"context"
	"encoding/json"

	"github.com/bububa/crew-agents/components"
	"github.com/bububa/crew-agents/schema"
)

// ActionType discriminates the decision of one reasoning step.
type ActionType = string

const (
	ActionFinalAnswer ActionType = "final_answer"
	ActionUseTool     ActionType = "use_tool"
	ActionDelegate    ActionType = "delegate"
)

// Action is the structured decision returned by a reasoning step.
type Action struct {
	schema.Base
	// Type is the kind of action to take.
	Type ActionType `json:"type" jsonschema:"title=type,enum=final_answer,enum=use_tool,enum=delegate,description=The action to take next." validate:"required,oneof=final_answer use_tool delegate"`
	// Reasoning is a short justification of the decision.
	Reasoning string `json:"reasoning,omitempty" jsonschema:"title=reasoning,description=Short justification of the decision."`
	// Answer is the final answer to the task. Required when type is final_answer.
	Answer string `json:"answer,omitempty" jsonschema:"title=answer,description=The final answer to the task. Required when type is final_answer."`
	// Tool is the name of the tool to invoke. Required when type is use_tool.
	Tool string `json:"tool,omitempty" jsonschema:"title=tool,description=The name of the tool to invoke. Required when type is use_tool."`
	// ToolInput is the JSON encoded input for the tool.
	ToolInput string `json:"tool_input,omitempty" jsonschema:"title=tool_input,description=JSON encoded input for the tool."`
	// DelegateRole is the role of the coworker to delegate to. Required when type is delegate.
	DelegateRole string `json:"delegate_role,omitempty" jsonschema:"title=delegate_role,description=The role of the coworker to delegate to. Required when type is delegate."`
	// DelegateTask describes the work handed to the coworker.
	DelegateTask string `json:"delegate_task,omitempty" jsonschema:"title=delegate_task,description=Description of the work handed to the coworker."`
}

func (a Action) String() string {
	bs, _ := json.Marshal(a)
	return string(bs)
}

// ToolSpec describes one capability available to the reasoning step.
type ToolSpec struct {
	Name        string
	Description string
}

// DelegateSpec describes one coworker available for delegation.
type DelegateSpec struct {
	Role string
	Goal string
}

// Step is one completed round of a task: the action taken and what came back.
type Step struct {
	Action      Action
	Observation string
}

// Request carries the full context of one reasoning step.
type Request struct {
	// Role, Goal and Backstory form the acting agent's persona.
	Role      string
	Goal      string
	Backstory string
	// Task is the natural language description of the work.
	Task string
	// ExpectedOutput is an optional hint on the desired answer shape.
	ExpectedOutput string
	// Context holds outputs of earlier tasks in the same run.
	Context []string
	// Tools lists the capabilities the agent may invoke.
	Tools []ToolSpec
	// Delegates lists the coworkers the agent may delegate to. Empty when
	// delegation is not permitted.
	Delegates []DelegateSpec
	// Steps holds prior rounds of this task, oldest first.
	Steps []Step
}

// Engine is the pluggable reasoning strategy. Implementations must be safe for
// the access pattern of their underlying client; wrap non-reentrant clients
// with Serialized.
type Engine interface {
	Reason(ctx context.Context, req *Request, resp *components.LLMResponse) (*Action, error)
}

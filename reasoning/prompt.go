package reasoning

import (
	"fmt"
	"strings"

	"github.com/bububa/crew-agents/components"
	"github.com/bububa/crew-agents/components/systemprompt"
	"github.com/bububa/crew-agents/components/systemprompt/persona"
	"github.com/bububa/crew-agents/schema"
)

// toolsProvider renders the available tools as a system prompt section.
type toolsProvider []ToolSpec

func (p toolsProvider) Title() string {
	return "Available Tools"
}

func (p toolsProvider) Info() string {
	lines := make([]string, 0, len(p))
	for _, v := range p {
		lines = append(lines, fmt.Sprintf("- %s: %s", v.Name, v.Description))
	}
	return strings.Join(lines, "\n")
}

// delegatesProvider renders the coworkers available for delegation.
type delegatesProvider []DelegateSpec

func (p delegatesProvider) Title() string {
	return "Available Coworkers"
}

func (p delegatesProvider) Info() string {
	lines := make([]string, 0, len(p))
	for _, v := range p {
		lines = append(lines, fmt.Sprintf("- %s: %s", v.Role, v.Goal))
	}
	return strings.Join(lines, "\n")
}

// taskContextProvider renders the outputs of earlier tasks.
type taskContextProvider []string

func (p taskContextProvider) Title() string {
	return "Context From Earlier Tasks"
}

func (p taskContextProvider) Info() string {
	return strings.Join(p, "\n\n")
}

func actionInstructs(req *Request) []string {
	instructs := []string{
		"- Respond with exactly one action encoded in the required JSON schema.",
		`- To finish the task set type to "final_answer" and put the complete answer in the answer field.`,
	}
	if len(req.Tools) > 0 {
		instructs = append(instructs, `- To use a tool set type to "use_tool", name it in the tool field and put its JSON arguments in the tool_input field.`)
	}
	if len(req.Delegates) > 0 {
		instructs = append(instructs, `- To hand work to a coworker set type to "delegate", name their role in the delegate_role field and describe the work in the delegate_task field.`)
	}
	return instructs
}

// SystemPrompt renders the persona system prompt for a reasoning step.
func SystemPrompt(req *Request) string {
	providers := make([]systemprompt.ContextProvider, 0, 3)
	if len(req.Tools) > 0 {
		providers = append(providers, toolsProvider(req.Tools))
	}
	if len(req.Delegates) > 0 {
		providers = append(providers, delegatesProvider(req.Delegates))
	}
	if len(req.Context) > 0 {
		providers = append(providers, taskContextProvider(req.Context))
	}
	gen := persona.New(
		persona.WithRole(req.Role),
		persona.WithGoal(req.Goal),
		persona.WithBackstory(req.Backstory),
		persona.WithInstructs(actionInstructs(req)),
		persona.WithContextProviders(providers...),
	)
	return gen.Generate()
}

// TaskPrompt renders the user message describing the work.
func TaskPrompt(req *Request) string {
	if req.ExpectedOutput == "" {
		return req.Task
	}
	return fmt.Sprintf("%s\n\nExpected output: %s", req.Task, req.ExpectedOutput)
}

// Messages converts a request into a provider-neutral message transcript.
func Messages(req *Request) []components.Message {
	messages := make([]components.Message, 0, len(req.Steps)*2+2)
	messages = append(messages, *components.NewMessage(components.SystemRole, schema.NewString(SystemPrompt(req))))
	messages = append(messages, *components.NewMessage(components.UserRole, schema.NewString(TaskPrompt(req))))
	for _, step := range req.Steps {
		messages = append(messages, *components.NewMessage(components.AssistantRole, step.Action))
		messages = append(messages, *components.NewMessage(components.UserRole, schema.NewString(fmt.Sprintf("Observation: %s", step.Observation))))
	}
	return messages
}

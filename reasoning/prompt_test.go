package reasoning

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/bububa/crew-agents/components"
)

func TestSystemPromptSections(t *testing.T) {
	req := &Request{
		Role:      "Research Analyst",
		Goal:      "Find facts",
		Backstory: "Thorough and skeptical.",
		Task:      "Look things up",
		Tools:     []ToolSpec{{Name: "web_search", Description: "Searches the web."}},
		Delegates: []DelegateSpec{{Role: "Writer", Goal: "Write prose"}},
		Context:   []string{"earlier output"},
	}
	prompt := SystemPrompt(req)
	for _, want := range []string{
		"Research Analyst",
		"## Available Tools",
		"- web_search: Searches the web.",
		"## Available Coworkers",
		"- Writer: Write prose",
		"## Context From Earlier Tasks",
		"earlier output",
		`"delegate"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSystemPromptOmitsDelegationWhenNotPermitted(t *testing.T) {
	req := &Request{Role: "Solo", Goal: "Work alone", Backstory: "None", Task: "Do it"}
	prompt := SystemPrompt(req)
	if strings.Contains(prompt, "Available Coworkers") || strings.Contains(prompt, `"delegate"`) {
		t.Errorf("prompt offers delegation to an agent without delegates:\n%s", prompt)
	}
	if strings.Contains(prompt, "Available Tools") {
		t.Errorf("prompt offers tools to an agent without tools:\n%s", prompt)
	}
}

func TestTaskPromptExpectedOutput(t *testing.T) {
	req := &Request{Task: "Summarize", ExpectedOutput: "Three bullet points"}
	got := TaskPrompt(req)
	if !strings.Contains(got, "Summarize") || !strings.Contains(got, "Three bullet points") {
		t.Errorf("unexpected task prompt: %s", got)
	}
}

func TestMessagesIncludeSteps(t *testing.T) {
	req := &Request{
		Role: "R", Goal: "G", Backstory: "B", Task: "T",
		Steps: []Step{{
			Action:      Action{Type: ActionUseTool, Tool: "web_search", ToolInput: `{"queries":["q"]}`},
			Observation: "some results",
		}},
	}
	messages := Messages(req)
	if len(messages) != 4 {
		t.Fatalf("expect 4 messages, got %d", len(messages))
	}
	if messages[2].Role() != components.AssistantRole {
		t.Errorf("expect assistant message for step action, got %s", messages[2].Role())
	}
	if got := messages[3].StringifiedContent(); !strings.Contains(got, "Observation: some results") {
		t.Errorf("expect observation message, got %s", got)
	}
}

type countingEngine struct {
	active int
	max    int
	mtx    sync.Mutex
}

func (e *countingEngine) Reason(ctx context.Context, req *Request, resp *components.LLMResponse) (*Action, error) {
	e.mtx.Lock()
	e.active++
	if e.active > e.max {
		e.max = e.active
	}
	e.mtx.Unlock()
	defer func() {
		e.mtx.Lock()
		e.active--
		e.mtx.Unlock()
	}()
	return &Action{Type: ActionFinalAnswer, Answer: "ok"}, nil
}

func TestSerializedSingleFlight(t *testing.T) {
	inner := new(countingEngine)
	engine := Serialized(inner)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Reason(context.Background(), &Request{}, nil); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if inner.max > 1 {
		t.Errorf("expect serialized access, saw %d concurrent calls", inner.max)
	}
}

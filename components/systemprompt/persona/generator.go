// Package persona generates system prompts for role-based agents: who the
// agent is, what it is trying to achieve, and how it must answer.
package persona

import (
	"fmt"
	"strings"

	"github.com/bububa/crew-agents/components/systemprompt"
)

// Generator renders a role persona as a system prompt.
type Generator struct {
	systemprompt.BaseGenerator
	role      string
	goal      string
	backstory string
	instructs []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new persona prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.instructs) == 0 {
		ret.instructs = []string{
			"- Always respond using the proper JSON schema.",
			"- Always use the available additional information and context to enhance the response.",
		}
	}
	return ret
}

func (g *Generator) Generate() string {
	var promptParts []string
	sections := []struct {
		title   string
		content []string
	}{
		{"ROLE", []string{fmt.Sprintf("- You are %s.", g.role)}},
		{"GOAL", []string{fmt.Sprintf("- %s", g.goal)}},
		{"BACKSTORY", nil},
		{"OUTPUT INSTRUCTIONS", g.instructs},
	}
	if g.backstory != "" {
		sections[2].content = []string{fmt.Sprintf("- %s", g.backstory)}
	}
	for _, section := range sections {
		if len(section.content) == 0 {
			continue
		}
		promptParts = append(promptParts, fmt.Sprintf("# %s", section.title))
		promptParts = append(promptParts, section.content...)
		promptParts = append(promptParts, "")
	}
	if providers := g.ContextProviders(); len(providers) > 0 {
		promptParts = append(promptParts, "# EXTRA INFORMATION AND CONTEXT")
		for _, provider := range providers {
			if info := provider.Info(); info != "" {
				promptParts = append(promptParts, fmt.Sprintf("## %s", provider.Title()))
				promptParts = append(promptParts, info)
				promptParts = append(promptParts, "")
			}
		}
	}
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}

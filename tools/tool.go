// Package tools defines the capability interfaces agents expose to the
// reasoning engine, plus the shared tool configuration.
package tools

import (
	"context"
	"encoding/json"

	"github.com/bububa/crew-agents/schema"
)

type ITool interface {
	SetTitle(string)
	Title() string
	SetDescription(string)
	Description() string
}

// Tool is a typed capability with a structured input and output schema.
type Tool[I schema.Schema, O schema.Schema] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Callable is the engine-facing surface of a tool: raw JSON in, text out.
// Agents hold Callables; the reasoning engine supplies the arguments.
type Callable interface {
	ITool
	Call(ctx context.Context, input []byte) (string, error)
}

type caller[I schema.Schema, O schema.Schema] struct {
	Tool[I, O]
}

// Caller adapts a typed Tool into a Callable by decoding the engine-supplied
// JSON arguments into the tool's input schema.
func Caller[I schema.Schema, O schema.Schema](t Tool[I, O]) Callable {
	return caller[I, O]{t}
}

func (c caller[I, O]) Call(ctx context.Context, input []byte) (string, error) {
	in := new(I)
	if len(input) > 0 {
		if err := json.Unmarshal(input, in); err != nil {
			return "", err
		}
	}
	out, err := c.Run(ctx, in)
	if err != nil {
		return "", err
	}
	return schema.Stringify(*out), nil
}

package reasoning

import (
	"context"
	"errors"

	"github.com/bububa/instructor-go/pkg/instructor"
	cohere "github.com/cohere-ai/cohere-go/v2"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/crew-agents/components"
	"github.com/bububa/crew-agents/schema"
)

// InstructorEngine is an Engine backed by an instructor-go structured output
// client. The Action schema is requested directly from the model.
type InstructorEngine struct {
	client      instructor.Instructor
	model       string
	temperature float32
	maxTokens   int
}

var _ Engine = (*InstructorEngine)(nil)

// NewInstructorEngine returns a new InstructorEngine
func NewInstructorEngine(clt instructor.Instructor, options ...EngineOption) *InstructorEngine {
	ret := &InstructorEngine{
		client: clt,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.maxTokens == 0 {
		ret.maxTokens = 1024
	}
	return ret
}

// Reason runs one structured reasoning step against the language model.
func (e *InstructorEngine) Reason(ctx context.Context, req *Request, resp *components.LLMResponse) (*Action, error) {
	messages := Messages(req)
	action := new(Action)
	switch clt := e.client.(type) {
	case *instructor.InstructorOpenAI:
		chatReq := openai.ChatCompletionRequest{
			Model:               e.model,
			Temperature:         e.temperature,
			MaxCompletionTokens: e.maxTokens,
		}
		for _, msg := range messages {
			v := new(openai.ChatCompletionMessage)
			msg.ToOpenAI(v)
			chatReq.Messages = append(chatReq.Messages, *v)
		}
		if res, err := clt.CreateChatCompletion(ctx, chatReq, action); err != nil {
			return nil, err
		} else if resp != nil {
			resp.FromOpenAI(&res)
		}
	case *instructor.InstructorAnthropic:
		chatReq := anthropic.MessagesRequest{
			Model:       anthropic.Model(e.model),
			Temperature: &e.temperature,
			MaxTokens:   e.maxTokens,
		}
		var system string
		for _, msg := range messages {
			if msg.Role() == components.SystemRole {
				system = schema.Stringify(msg.Content())
				continue
			}
			v := new(anthropic.Message)
			msg.ToAnthropic(v)
			chatReq.Messages = append(chatReq.Messages, *v)
		}
		chatReq.System = system
		if res, err := clt.CreateMessages(ctx, chatReq, action); err != nil {
			return nil, err
		} else if resp != nil {
			resp.FromAnthropic(&res)
		}
	case *instructor.InstructorCohere:
		lastIdx := len(messages) - 1
		temperature := float64(e.temperature)
		chatReq := cohere.ChatRequest{
			Model:       &e.model,
			Temperature: &temperature,
			MaxTokens:   &e.maxTokens,
			Message:     schema.Stringify(messages[lastIdx].Content()),
		}
		for idx, msg := range messages {
			if idx >= lastIdx {
				break
			}
			v := new(cohere.Message)
			msg.ToCohere(v)
			chatReq.ChatHistory = append(chatReq.ChatHistory, v)
		}
		if res, err := clt.Chat(ctx, &chatReq, action); err != nil {
			return nil, err
		} else if resp != nil {
			resp.FromCohere(res)
		}
	default:
		return nil, errors.New("unsupported instructor client")
	}
	return action, nil
}

package reasoning

import (
	"context"
	"sync"

	"github.com/bububa/crew-agents/components"
)

type serialized struct {
	engine Engine
	mtx    sync.Mutex
}

// Serialized wraps an Engine so that only one reasoning step runs at a time.
// Use it when the underlying client is not safe for concurrent use.
func Serialized(e Engine) Engine {
	return &serialized{engine: e}
}

func (s *serialized) Reason(ctx context.Context, req *Request, resp *components.LLMResponse) (*Action, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.engine.Reason(ctx, req, resp)
}

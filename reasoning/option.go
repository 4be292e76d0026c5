package reasoning

type EngineOption func(e *InstructorEngine)

func WithModel(model string) EngineOption {
	return func(e *InstructorEngine) {
		e.model = model
	}
}

func WithTemperature(temperature float32) EngineOption {
	return func(e *InstructorEngine) {
		e.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) EngineOption {
	return func(e *InstructorEngine) {
		e.maxTokens = maxTokens
	}
}

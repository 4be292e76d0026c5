package crew

import "fmt"

// ConfigurationError reports an invalid or missing configuration value.
// It is fatal at construction time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// UnboundTaskError reports a task with no agent bound to it.
type UnboundTaskError struct {
	TaskIndex int
}

func (e *UnboundTaskError) Error() string {
	return fmt.Sprintf("task %d has no agent bound to it", e.TaskIndex)
}

// DelegationDeniedError reports a delegation request by an agent whose
// delegation permission is off. It is surfaced to the engine as an
// observation, not as a task failure.
type DelegationDeniedError struct {
	TaskIndex int
	Role      string
	Delegate  string
}

func (e *DelegationDeniedError) Error() string {
	return fmt.Sprintf("task %d: agent %q is not permitted to delegate to %q", e.TaskIndex, e.Role, e.Delegate)
}

// ToolInvocationError reports a failed or invalid tool call.
type ToolInvocationError struct {
	TaskIndex int
	Role      string
	Tool      string
	Err       error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("task %d: agent %q tool %q failed: %v", e.TaskIndex, e.Role, e.Tool, e.Err)
}

func (e *ToolInvocationError) Unwrap() error {
	return e.Err
}

// ReasoningEngineError reports a failed reasoning step.
type ReasoningEngineError struct {
	TaskIndex int
	Role      string
	Err       error
}

func (e *ReasoningEngineError) Error() string {
	return fmt.Sprintf("task %d: agent %q reasoning failed: %v", e.TaskIndex, e.Role, e.Err)
}

func (e *ReasoningEngineError) Unwrap() error {
	return e.Err
}

// ToolCallLimitExceeded reports that a task hit the per-task round cap.
type ToolCallLimitExceeded struct {
	TaskIndex int
	Role      string
	Limit     int
}

func (e *ToolCallLimitExceeded) Error() string {
	return fmt.Sprintf("task %d: agent %q exceeded the limit of %d tool call rounds", e.TaskIndex, e.Role, e.Limit)
}

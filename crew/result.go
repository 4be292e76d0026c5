package crew

import (
	"github.com/bububa/crew-agents/components"
)

// TaskResult is the outcome of one task in a kickoff.
type TaskResult struct {
	// TaskIndex is the position of the task in declaration order.
	TaskIndex int
	// Description is the task description.
	Description string
	// Role is the role of the agent the task was bound to.
	Role string
	// Output is the final textual answer. Empty when the task failed.
	Output string
	// Err is the failure recorded for this task, nil on success.
	Err error
	// Transcript is the full message transcript of the task, including tool
	// observations and delegated work.
	Transcript []components.Message
}

// Failed reports whether the task recorded a failure.
func (r TaskResult) Failed() bool {
	return r.Err != nil
}

// Result aggregates one kickoff run.
type Result struct {
	// RunID identifies this kickoff run.
	RunID string
	// TaskResults holds per-task outcomes in declaration order.
	TaskResults []TaskResult
	// Raw is the output of the last successful task.
	Raw string
	// Usage is the merged token accounting of every reasoning step in the run.
	Usage components.LLMUsage
}

// Failed reports whether any task in the run recorded a failure.
func (r *Result) Failed() bool {
	for _, tr := range r.TaskResults {
		if tr.Failed() {
			return true
		}
	}
	return false
}

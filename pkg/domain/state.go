package domain

import "time"

// FlowStatus is the coarse state of an attempt.
type FlowStatus string

const (
	FlowRunning   FlowStatus = "running"
	FlowRejected  FlowStatus = "rejected"
	FlowCompleted FlowStatus = "completed"
)

// FlowState is scoped to one submission attempt. It is owned by the flow
// controller while the attempt runs and discarded afterwards; nothing is carried
// over to the next attempt.
type FlowState struct {
	AttemptID        string     `json:"attempt_id"`
	SubmittedText    string     `json:"submitted_text"`
	CurrentStepIndex int        `json:"current_step_index"`
	CurrentStep      string     `json:"current_step,omitempty"`
	Status           FlowStatus `json:"status"`
	StartedAt        time.Time  `json:"started_at"`
}

// NewFlowState creates the state of a fresh attempt at Running(0).
func NewFlowState(attemptID, text string) *FlowState {
	return &FlowState{
		AttemptID:     attemptID,
		SubmittedText: text,
		Status:        FlowRunning,
		StartedAt:     time.Now(),
	}
}

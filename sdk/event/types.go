package event

import (
	"time"
)

// EventType represents the type of event
type EventType string

const (
	// Workflow lifecycle events
	WorkflowStarted   EventType = "workflow.started"
	WorkflowCompleted EventType = "workflow.completed"
	WorkflowFailed    EventType = "workflow.failed"

	// Step lifecycle events
	StepStarted   EventType = "step.started"
	StepCompleted EventType = "step.completed"
	StepFailed    EventType = "step.failed"
)

// Event is emitted while a multi-call workflow runs.
type Event struct {
	Type      EventType
	RunID     string // correlation id of the run
	Step      string // empty for workflow events
	Timestamp time.Time
	Data      map[string]interface{}
}

func NewEvent(eventType EventType, runID, step string, data map[string]interface{}) Event {
	if data == nil {
		data = make(map[string]interface{})
	}

	return Event{
		Type:      eventType,
		RunID:     runID,
		Step:      step,
		Timestamp: time.Now(),
		Data:      data,
	}
}

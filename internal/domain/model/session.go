package model

// Workflow identifies a multi-step admin conversation and the step it is at.
type Workflow string

const (
	// Broadcast: choose audience, then enter the message text.
	StepChoosingAudience Workflow = "broadcast_choosing_audience"
	StepEnteringMessage  Workflow = "broadcast_entering_message"

	// Restore: wait for an uploaded backup archive.
	StepAwaitingFile Workflow = "restore_awaiting_file"

	// Plan management.
	StepAddingJSON  Workflow = "plan_adding_json"
	StepEditingID   Workflow = "plan_editing_id"
	StepEditingJSON Workflow = "plan_editing_json"
)

// Session holds one actor's progress through a workflow plus any data
// collected along the way (chosen audience, target plan id, ...).
// Exactly one session exists per actor; starting a workflow replaces it.
type Session struct {
	Workflow Workflow          `json:"workflow"`
	Data     map[string]string `json:"data"`
}

// Data keys used by the workflow engine.
const (
	SessionKeyAudience = "audience"
	SessionKeyPlanID   = "plan_id"
)

package response_models

// ProgressEvent is one streamed pipeline notification. Emission order matches
// stage execution order; delivery is best effort and never blocks the run.
type ProgressEvent struct {
	Type      string         `json:"type"`
	Stage     string         `json:"stage"`
	Agent     string         `json:"agent,omitempty"`
	Message   string         `json:"message"`
	Summary   map[string]any `json:"summary,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

const (
	EventStageStarted   = "stage_started"
	EventStageCompleted = "stage_completed"
	EventToolUsed       = "tool_used"
	EventComplete       = "complete"
	EventError          = "error"
)

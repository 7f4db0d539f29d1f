package models

// Suggestion types emitted by the suggestion engine.
const (
	SuggestionWelcome  = "welcome"
	SuggestionReminder = "reminder"
	SuggestionProgress = "progress"
	SuggestionTip      = "tip"
	SuggestionPattern  = "pattern"
)

// Suggestion is an ephemeral, rule-derived hint. It is recomputed from current
// state on every request and never persisted.
type Suggestion struct {
	Type         string  `json:"type"`
	Message      string  `json:"message"`
	Icon         string  `json:"icon"`
	Priority     int     `json:"priority"` // higher = more urgent
	ActionAmount float64 `json:"action_amount,omitempty"`
}

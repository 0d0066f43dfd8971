package models

// ScriptRequest asks the model for a voice-over script.
type ScriptRequest struct {
	Topic string `json:"topic" validate:"required,max=500"`
	Tone  string `json:"tone" validate:"omitempty,max=64"`
	Type  string `json:"type" validate:"omitempty,max=64"`
}

package vkclient

import "encoding/json"

// Button colors accepted by the VK keyboard API
const (
	ColorPositive  = "positive"
	ColorPrimary   = "primary"
	ColorSecondary = "secondary"
	ColorNegative  = "negative"
)

// Keyboard is the VK keyboard markup sent with messages.send
type Keyboard struct {
	OneTime bool       `json:"one_time"`
	Buttons [][]Button `json:"buttons"`
}

// Button is one keyboard button
type Button struct {
	Action ButtonAction `json:"action"`
	Color  string       `json:"color,omitempty"`
}

// ButtonAction describes what pressing the button sends back
type ButtonAction struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Payload string `json:"payload,omitempty"`
}

// NewKeyboard creates an empty keyboard
func NewKeyboard(oneTime bool) *Keyboard {
	return &Keyboard{OneTime: oneTime}
}

// AddRow appends one row of buttons
func (k *Keyboard) AddRow(buttons ...Button) *Keyboard {
	k.Buttons = append(k.Buttons, buttons)
	return k
}

// TextButton builds a text button carrying a structured command payload.
// A nil payload produces a plain label-only button.
func TextButton(label, color string, payload map[string]interface{}) Button {
	action := ButtonAction{Type: "text", Label: label}
	if payload != nil {
		// Payload keys are plain strings and numbers, marshalling cannot fail.
		raw, _ := json.Marshal(payload)
		action.Payload = string(raw)
	}
	return Button{Action: action, Color: color}
}

package models

// Event is one inbound message taken from the long-poll stream
type Event struct {
	UserID  int64
	Text    string
	Payload string // raw keyboard payload JSON, empty for plain text
}

// CommandPayload is the structured schema carried by keyboard buttons
type CommandPayload struct {
	Command string `mapstructure:"command"`
	CityID  int64  `mapstructure:"city_id"`
	OwnerID int64  `mapstructure:"owner_id"`
	PhotoID int64  `mapstructure:"photo_id"`
}

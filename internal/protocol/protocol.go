// Package protocol defines the wire messages exchanged with arena clients.
// Every message travels inside an Envelope; the payload encoding (JSON text
// or msgpack binary) is negotiated per connection.
package protocol

// Message type tags carried in Envelope.T.
const (
	TypeWelcome    = "welcome"
	TypeSnapshot   = "snapshot"
	TypeMatchEvent = "match_event"
	TypeError      = "error"

	TypeInput   = "input"
	TypeDeploy  = "deploy"
	TypeControl = "control"
	TypeReset   = "reset"
)

// Envelope wraps every client/server message with a type tag.
type Envelope struct {
	T string      `json:"t" msgpack:"t"`
	D interface{} `json:"d,omitempty" msgpack:"d,omitempty"`
}

// InputMsg is a key state change from the client.
type InputMsg struct {
	Key     string `json:"key" msgpack:"key"`
	Pressed bool   `json:"pressed" msgpack:"pressed"`
}

// ControlMsg switches who drives the local commander ("auto" or "player").
type ControlMsg struct {
	Mode string `json:"mode" msgpack:"mode"`
}

// WelcomeMsg is sent once after a connection is accepted.
type WelcomeMsg struct {
	PlayerTeam string  `json:"playerTeam" msgpack:"playerTeam"`
	TickRate   int     `json:"tickRate" msgpack:"tickRate"`
	ArenaW     float64 `json:"arenaW" msgpack:"arenaW"`
	ArenaH     float64 `json:"arenaH" msgpack:"arenaH"`
	Encoding   string  `json:"encoding" msgpack:"encoding"`
}

// ErrorMsg reports a rejected client message.
type ErrorMsg struct {
	Message string `json:"message" msgpack:"message"`
}

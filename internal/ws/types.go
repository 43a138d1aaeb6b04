package ws

// server -> client
const (
	MsgConnected = "connected"
)

// Message is the envelope of every pushed frame
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

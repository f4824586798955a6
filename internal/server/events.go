package server

// wsMessage is the frame exchanged with websocket subscribers in both
// directions.
type wsMessage struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

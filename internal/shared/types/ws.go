package types

// WebSocket message types sent by the server
const (
	WSWelcome      = "welcome"
	WSTabs         = "tabs"
	WSNavigation   = "navigation"
	WSNotification = "notification"
	WSError        = "error"
	WSPong         = "pong"
)

// WebSocket message types sent by the client
const (
	WSNavigate    = "navigate"
	WSActivate    = "activate"
	WSClose       = "close"
	WSToggleGroup = "toggle_group"
	WSPing        = "ping"
)

// WSMessage is the envelope for WebSocket traffic in both directions
type WSMessage struct {
	Type      string `json:"type"`
	Workspace string `json:"workspace,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`

	// Client fields
	Route string `json:"route,omitempty"`
	TabID string `json:"tab_id,omitempty"`
	Group string `json:"group,omitempty"`

	// Server fields
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

package dto

import "github.com/goccy/go-json"

// Live view message types.
const (
	LiveTypeSelectTimeframe = "select_timeframe"
	LiveTypePing            = "ping"
	LiveTypeChart           = "chart"
	LiveTypeNotifications   = "notifications"
	LiveTypePong            = "pong"
	LiveTypeError           = "error"
)

// LiveClientMessage is a message sent by the dashboard over the live websocket.
type LiveClientMessage struct {
	Type      string `json:"type"`
	Timeframe string `json:"timeframe,omitempty"`
}

// LiveServerMessage is a message pushed to the dashboard over the live websocket.
type LiveServerMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewLiveServerMessage encodes data into a server message.
func NewLiveServerMessage(messageType string, data any) (LiveServerMessage, error) {
	msg := LiveServerMessage{Type: messageType}
	if data == nil {
		return msg, nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return LiveServerMessage{}, err
	}
	msg.Data = payload
	return msg, nil
}

package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribe = "subscribe"

	// Server -> Client
	TypeLeaderboardUpdate = "leaderboard_update"
	TypeError             = "error"
	TypePing              = "ping"
	TypePong              = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// Client Messages (incoming)

type SubscribePayload struct {
	Filter string `json:"filter"`
}

// Server Messages (outgoing)

type LeaderboardUpdatePayload struct {
	Filter    string             `json:"filter"`
	Top       []LeaderboardEntry `json:"top"`
	Source    string             `json:"source"`
	UpdatedAt string             `json:"updated_at"`
}

type LeaderboardEntry struct {
	Rank       int      `json:"rank"`
	UserID     string   `json:"user_id"`
	Nickname   string   `json:"nickname"`
	Difficulty string   `json:"difficulty"`
	Score      int      `json:"score"`
	IQ         *float64 `json:"iq,omitempty"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

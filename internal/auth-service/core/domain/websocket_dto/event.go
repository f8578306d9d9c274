package websocketdto

import "encoding/json"

// Event is the envelope for every message on the admin feed.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

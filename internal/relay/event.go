package relay

import "encoding/json"

// Event is one message of a chat stream.
//
// A chunk event carries the new Content and the FullResponse so far. The
// terminal event has Done set and either an empty Content or, on failure,
// Error and Detail.
type Event struct {
	Content      string
	FullResponse string
	Done         bool
	Error        string
	Detail       string
}

type chunkEvent struct {
	Content      string `json:"content"`
	FullResponse string `json:"fullResponse"`
	Done         bool   `json:"done"`
}

type errorEvent struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Done   bool   `json:"done"`
}

// IsError reports whether the event reports an upstream failure.
func (e Event) IsError() bool {
	return e.Error != ""
}

// MarshalJSON encodes the event in the chunk or error shape.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.IsError() {
		return json.Marshal(errorEvent{Error: e.Error, Detail: e.Detail, Done: e.Done})
	}
	return json.Marshal(chunkEvent{Content: e.Content, FullResponse: e.FullResponse, Done: e.Done})
}

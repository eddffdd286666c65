package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDataLoaded        EventType = "board_data_loaded"
	EventDataLoadFailed    EventType = "board_data_load_failed"
	EventPreferenceChanged EventType = "board_preference_changed"
)

// Event represents a board event emitted by the controller.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DataLoadedPayload payload.
type DataLoadedPayload struct {
	Tickets  int    `json:"tickets"`
	Users    int    `json:"users"`
	Revision uint64 `json:"revision"`
}

// DataLoadFailedPayload payload.
type DataLoadFailedPayload struct {
	Error string `json:"error"`
}

// PreferenceChangedPayload payload.
type PreferenceChangedPayload struct {
	Key      string `json:"key"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

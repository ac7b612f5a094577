// Package events provides an event system for run lifecycle notifications.
package events

import "time"

// EventType represents the type of event
type EventType string

const (
	// EventRunStarted is emitted when a load run begins
	EventRunStarted EventType = "run_started"
	// EventRunFinished is emitted when a load run completes or is stopped
	EventRunFinished EventType = "run_finished"
	// EventUserSpawned is emitted when a simulated user starts its loop
	EventUserSpawned EventType = "user_spawned"
	// EventRequestFailed is emitted when a generated request fails
	EventRequestFailed EventType = "request_failed"
)

// Event represents a run lifecycle event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data,omitempty"`
}

// EventData contains event-specific data
type EventData struct {
	Scenario string `json:"scenario,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Users    int    `json:"users,omitempty"`
	Name     string `json:"name,omitempty"`
	Method   string `json:"method,omitempty"`
	Status   int    `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewRunStartedEvent creates an event for a run that has begun
func NewRunStartedEvent(scenario string, users int) Event {
	return Event{
		Type:      EventRunStarted,
		Timestamp: time.Now(),
		Data: EventData{
			Scenario: scenario,
			Users:    users,
		},
	}
}

// NewRunFinishedEvent creates an event for a completed run
func NewRunFinishedEvent(scenario string) Event {
	return Event{
		Type:      EventRunFinished,
		Timestamp: time.Now(),
		Data: EventData{
			Scenario: scenario,
		},
	}
}

// NewUserSpawnedEvent creates an event for a newly started simulated user
func NewUserSpawnedEvent(userID string) Event {
	return Event{
		Type:      EventUserSpawned,
		Timestamp: time.Now(),
		Data: EventData{
			UserID: userID,
		},
	}
}

// NewRequestFailedEvent creates an event for a failed request sample
func NewRequestFailedEvent(name, method string, status int, errMsg string) Event {
	return Event{
		Type:      EventRequestFailed,
		Timestamp: time.Now(),
		Data: EventData{
			Name:   name,
			Method: method,
			Status: status,
			Error:  errMsg,
		},
	}
}

package models

// EventsResponse wraps GET /events/network/{id}. The JSON key is "event",
// singular. A nil Events slice means the key was absent (distinct from an
// empty list, which decodes to a non-nil empty slice).
type EventsResponse struct {
	Events []Event `json:"event"`
}

// Event is a single raw event record from the sync module's event log.
type Event struct {
	ID         int    `json:"id"`
	Type       string `json:"type"` // e.g. "motion", "armed", "disarmed"
	CameraID   int    `json:"camera_id,omitempty"`
	CameraName string `json:"camera_name,omitempty"`
	CreatedAt  string `json:"created_at"`
}

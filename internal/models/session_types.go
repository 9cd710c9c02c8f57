package models

import "time"

// Session statuses.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

func ValidSessionStatus(s string) bool {
	switch s {
	case SessionStatusScheduled, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// Session is a scheduled coaching appointment between a coach and one of
// their clients.
type Session struct {
	ID              string    `json:"id"`
	CoachID         string    `json:"coachId"`
	ClientID        string    `json:"clientId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func SessionFromDoc(id string, doc map[string]interface{}) Session {
	return Session{
		ID:              id,
		CoachID:         AsString(doc["coachId"]),
		ClientID:        AsString(doc["clientId"]),
		ScheduledAt:     AsTime(doc["scheduledAt"]),
		DurationMinutes: AsInt(doc["durationMinutes"]),
		Status:          AsString(doc["status"]),
		Notes:           AsString(doc["notes"]),
		CreatedAt:       AsTime(doc["createdAt"]),
		UpdatedAt:       AsTime(doc["updatedAt"]),
	}
}

func (s Session) ToFields() map[string]interface{} {
	return map[string]interface{}{
		"coachId":         s.CoachID,
		"clientId":        s.ClientID,
		"scheduledAt":     s.ScheduledAt,
		"durationMinutes": s.DurationMinutes,
		"status":          s.Status,
		"notes":           s.Notes,
		"createdAt":       s.CreatedAt,
		"updatedAt":       s.UpdatedAt,
	}
}

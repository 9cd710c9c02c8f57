package models

import "time"

// Client statuses. Status is validated against this closed set on every
// create and update.
const (
	ClientStatusActive   = "active"
	ClientStatusPaused   = "paused"
	ClientStatusArchived = "archived"
)

// ValidClientStatus reports whether s is one of the allowed client statuses.
func ValidClientStatus(s string) bool {
	switch s {
	case ClientStatusActive, ClientStatusPaused, ClientStatusArchived:
		return true
	}
	return false
}

// Client is a coachee on a coach's roster.
type Client struct {
	ID        string    `json:"id"`
	CoachID   string    `json:"coachId"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Goals     string    `json:"goals"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ClientFromDoc(id string, doc map[string]interface{}) Client {
	return Client{
		ID:        id,
		CoachID:   AsString(doc["coachId"]),
		FullName:  AsString(doc["fullName"]),
		Email:     AsString(doc["email"]),
		Goals:     AsString(doc["goals"]),
		Status:    AsString(doc["status"]),
		CreatedAt: AsTime(doc["createdAt"]),
		UpdatedAt: AsTime(doc["updatedAt"]),
	}
}

func (c Client) ToFields() map[string]interface{} {
	return map[string]interface{}{
		"coachId":   c.CoachID,
		"fullName":  c.FullName,
		"email":     c.Email,
		"goals":     c.Goals,
		"status":    c.Status,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

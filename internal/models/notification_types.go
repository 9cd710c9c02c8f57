package models

import "time"

// Notification is an in-app message for a coach (credit grants, session
// changes). Delivery by email is handled by an external collaborator and is
// not modeled here.
type Notification struct {
	ID        string    `json:"id"`
	CoachID   string    `json:"coachId"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func NotificationFromDoc(id string, doc map[string]interface{}) Notification {
	return Notification{
		ID:        id,
		CoachID:   AsString(doc["coachId"]),
		Message:   AsString(doc["message"]),
		IsRead:    AsBool(doc["isRead"]),
		CreatedAt: AsTime(doc["createdAt"]),
	}
}

func (n Notification) ToFields() map[string]interface{} {
	return map[string]interface{}{
		"coachId":   n.CoachID,
		"message":   n.Message,
		"isRead":    n.IsRead,
		"createdAt": n.CreatedAt,
	}
}

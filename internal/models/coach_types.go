package models

import "time"

// Document field names for the coaches collection. The ledger fields are
// written only by the credit ledger; profile updates must never touch them.
const (
	FieldAIInsights       = "aiInsights"
	FieldAIRefreshCredits = "aiRefreshCredits"
	FieldLastAIRefresh    = "lastAIRefresh"
)

// Coach is a platform user who manages clients and consumes AI-generated
// insights. The record is created by the onboarding flow; this service only
// reads it and mutates the insight/credit fields.
type Coach struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Bio              string    `json:"bio"`
	Specialization   string    `json:"specialization"`
	AIInsights       string    `json:"aiInsights"`
	AIRefreshCredits int       `json:"aiRefreshCredits"`
	LastAIRefresh    time.Time `json:"lastAIRefresh"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CoachData is the response body for GET /coach-data: the ledger subset of
// the coach record.
type CoachData struct {
	AIInsights       string `json:"aiInsights"`
	AIRefreshCredits int    `json:"aiRefreshCredits"`
}

func CoachFromDoc(id string, doc map[string]interface{}) Coach {
	return Coach{
		ID:               id,
		FullName:         AsString(doc["fullName"]),
		Email:            AsString(doc["email"]),
		Bio:              AsString(doc["bio"]),
		Specialization:   AsString(doc["specialization"]),
		AIInsights:       AsString(doc[FieldAIInsights]),
		AIRefreshCredits: AsInt(doc[FieldAIRefreshCredits]),
		LastAIRefresh:    AsTime(doc[FieldLastAIRefresh]),
		CreatedAt:        AsTime(doc["createdAt"]),
		UpdatedAt:        AsTime(doc["updatedAt"]),
	}
}

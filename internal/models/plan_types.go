package models

// Plan is a subscription tier. Billing itself is handled by the payment
// processor; this service only lists plans for the marketing surface.
type Plan struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	DurationDays      int     `json:"durationDays"`
	AICreditsIncluded int     `json:"aiCreditsIncluded"`
	IsPublic          bool    `json:"isPublic"`
}

func PlanFromDoc(id string, doc map[string]interface{}) Plan {
	return Plan{
		ID:                id,
		Name:              AsString(doc["name"]),
		Description:       AsString(doc["description"]),
		Price:             AsFloat(doc["price"]),
		DurationDays:      AsInt(doc["durationDays"]),
		AICreditsIncluded: AsInt(doc["aiCreditsIncluded"]),
		IsPublic:          AsBool(doc["isPublic"]),
	}
}

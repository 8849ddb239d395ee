package api

type dayPayload struct {
	DayType string `json:"day_type" form:"day_type"`
}

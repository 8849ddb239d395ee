package services

import "github.com/terraincognita07/tahara/internal/models"

const (
	GuidanceMessageExempt   = "Prayer and fasting are not obligatory on this day."
	GuidanceMessageRequired = "All regular acts of worship remain obligatory."
	GuidanceMessagePending  = "Complete ghusl (ritual washing) before resuming prayer and fasting."
)

type Guidance struct {
	DayType         models.DayTypeTag       `json:"day_type"`
	Status          models.ObligationStatus `json:"status"`
	Message         string                  `json:"message"`
	Actionable      bool                    `json:"actionable"`
	PrayerRequired  bool                    `json:"prayer_required"`
	FastingRequired bool                    `json:"fasting_required"`
}

// ResolveGuidance is a stateless lookup; nothing about previous days is kept.
// A pending day is treated like an exempt one until the washing is logged,
// but is flagged as actionable.
func ResolveGuidance(dayType models.DayType) Guidance {
	guidance := Guidance{DayType: dayType.Tag, Status: dayType.Status}
	switch dayType.Status {
	case models.StatusExempt:
		guidance.Message = GuidanceMessageExempt
	case models.StatusPending:
		guidance.Message = GuidanceMessagePending
		guidance.Actionable = true
	default:
		guidance.Status = models.StatusRequired
		guidance.Message = GuidanceMessageRequired
		guidance.PrayerRequired = true
		guidance.FastingRequired = true
	}
	return guidance
}

func GuidanceForTag(raw string) Guidance {
	return ResolveGuidance(models.ResolveDayType(raw))
}

package models

import "strings"

type DayTypeTag string

const (
	DayTypePeriod             DayTypeTag = "period"
	DayTypePeriodLight        DayTypeTag = "period-light"
	DayTypePeriodMedium       DayTypeTag = "period-medium"
	DayTypePeriodHeavy        DayTypeTag = "period-heavy"
	DayTypePostpartumBleeding DayTypeTag = "postpartum-bleeding"
	DayTypeIrregularBleeding  DayTypeTag = "irregular-bleeding"
	DayTypeGhuslRequired      DayTypeTag = "ghusl-required"
	DayTypeGhuslDone          DayTypeTag = "ghusl-done"
	DayTypePurity             DayTypeTag = "purity"
	DayTypeFertileStart       DayTypeTag = "fertile-start"
	DayTypeFertilePeak        DayTypeTag = "fertile-peak"
	DayTypeFertileEnd         DayTypeTag = "fertile-end"
	DayTypeOvulation          DayTypeTag = "ovulation"
	DayTypePregnancy          DayTypeTag = "pregnancy"
	DayTypeNormal             DayTypeTag = "normal"
)

type ObligationStatus string

const (
	StatusExempt   ObligationStatus = "exempt"
	StatusRequired ObligationStatus = "required"
	StatusPending  ObligationStatus = "pending"
)

type DayTypeFamily string

const (
	FamilyPeriod    DayTypeFamily = "period"
	FamilyBleeding  DayTypeFamily = "bleeding"
	FamilyPurity    DayTypeFamily = "purity"
	FamilyFertility DayTypeFamily = "fertility"
	FamilyPregnancy DayTypeFamily = "pregnancy"
	FamilyNormal    DayTypeFamily = "normal"
)

// DayType is one entry of the closed day-type registry.
type DayType struct {
	Tag    DayTypeTag       `json:"tag"`
	Label  string           `json:"label"`
	Status ObligationStatus `json:"status"`
	Family DayTypeFamily    `json:"family"`
	Color  string           `json:"color"`
}

// IsMenstruation reports whether days of this type count toward period windows.
func (dayType DayType) IsMenstruation() bool {
	return dayType.Family == FamilyPeriod
}

var dayTypeRegistry = []DayType{
	{Tag: DayTypePeriod, Label: "Period Day", Status: StatusExempt, Family: FamilyPeriod, Color: "#D6455D"},
	{Tag: DayTypePeriodLight, Label: "Light Flow", Status: StatusExempt, Family: FamilyPeriod, Color: "#F28B9B"},
	{Tag: DayTypePeriodMedium, Label: "Medium Flow", Status: StatusExempt, Family: FamilyPeriod, Color: "#E0566E"},
	{Tag: DayTypePeriodHeavy, Label: "Heavy Flow", Status: StatusExempt, Family: FamilyPeriod, Color: "#B3203A"},
	{Tag: DayTypePostpartumBleeding, Label: "Postpartum Bleeding", Status: StatusExempt, Family: FamilyBleeding, Color: "#8E2440"},
	{Tag: DayTypeIrregularBleeding, Label: "Irregular Bleeding", Status: StatusRequired, Family: FamilyBleeding, Color: "#C97B84"},
	{Tag: DayTypeGhuslRequired, Label: "Ghusl Pending", Status: StatusPending, Family: FamilyPurity, Color: "#F2B84B"},
	{Tag: DayTypeGhuslDone, Label: "Ghusl Done", Status: StatusRequired, Family: FamilyPurity, Color: "#4BA3C3"},
	{Tag: DayTypePurity, Label: "Purity", Status: StatusRequired, Family: FamilyPurity, Color: "#5DBB8A"},
	{Tag: DayTypeFertileStart, Label: "Fertile Window Start", Status: StatusRequired, Family: FamilyFertility, Color: "#9FD8B5"},
	{Tag: DayTypeFertilePeak, Label: "Fertile Peak", Status: StatusRequired, Family: FamilyFertility, Color: "#3FA66B"},
	{Tag: DayTypeFertileEnd, Label: "Fertile Window End", Status: StatusRequired, Family: FamilyFertility, Color: "#9FD8B5"},
	{Tag: DayTypeOvulation, Label: "Ovulation", Status: StatusRequired, Family: FamilyFertility, Color: "#2E8B57"},
	{Tag: DayTypePregnancy, Label: "Pregnancy", Status: StatusRequired, Family: FamilyPregnancy, Color: "#9B6FCF"},
	{Tag: DayTypeNormal, Label: "Normal Day", Status: StatusRequired, Family: FamilyNormal, Color: "#E5E7EB"},
}

var dayTypesByTag = indexDayTypes(dayTypeRegistry)

func indexDayTypes(registry []DayType) map[DayTypeTag]DayType {
	index := make(map[DayTypeTag]DayType, len(registry))
	for _, dayType := range registry {
		index[dayType.Tag] = dayType
	}
	return index
}

// ResolveDayType never fails: tags retired from the registry, typos and
// empty input all resolve to the normal day.
func ResolveDayType(raw string) DayType {
	if dayType, ok := lookupDayType(raw); ok {
		return dayType
	}
	return dayTypesByTag[DayTypeNormal]
}

func IsKnownDayType(raw string) bool {
	_, ok := lookupDayType(raw)
	return ok
}

// NormalizeDayTypeTag returns the canonical tag for known input and the
// trimmed raw value otherwise, so unknown tags survive a round trip.
func NormalizeDayTypeTag(raw string) DayTypeTag {
	if dayType, ok := lookupDayType(raw); ok {
		return dayType.Tag
	}
	return DayTypeTag(strings.TrimSpace(raw))
}

func KnownDayTypes() []DayType {
	result := make([]DayType, len(dayTypeRegistry))
	copy(result, dayTypeRegistry)
	return result
}

func lookupDayType(raw string) (DayType, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "_", "-")
	dayType, ok := dayTypesByTag[DayTypeTag(key)]
	return dayType, ok
}

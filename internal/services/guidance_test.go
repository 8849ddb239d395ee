package services

import (
	"testing"

	"github.com/terraincognita07/tahara/internal/models"
)

func TestGuidanceForTag(t *testing.T) {
	tests := []struct {
		tag        string
		status     models.ObligationStatus
		message    string
		actionable bool
		prayer     bool
	}{
		{tag: "period-heavy", status: models.StatusExempt, message: GuidanceMessageExempt},
		{tag: "postpartum-bleeding", status: models.StatusExempt, message: GuidanceMessageExempt},
		{tag: "ghusl-required", status: models.StatusPending, message: GuidanceMessagePending, actionable: true},
		{tag: "purity", status: models.StatusRequired, message: GuidanceMessageRequired, prayer: true},
		{tag: "ghusl-done", status: models.StatusRequired, message: GuidanceMessageRequired, prayer: true},
		{tag: "no-such-tag", status: models.StatusRequired, message: GuidanceMessageRequired, prayer: true},
	}

	for _, tt := range tests {
		got := GuidanceForTag(tt.tag)
		if got.Status != tt.status {
			t.Fatalf("%s: expected status %q, got %q", tt.tag, tt.status, got.Status)
		}
		if got.Message != tt.message {
			t.Fatalf("%s: expected message %q, got %q", tt.tag, tt.message, got.Message)
		}
		if got.Actionable != tt.actionable {
			t.Fatalf("%s: expected actionable=%v", tt.tag, tt.actionable)
		}
		if got.PrayerRequired != tt.prayer || got.FastingRequired != tt.prayer {
			t.Fatalf("%s: expected prayer/fasting required=%v, got %v/%v", tt.tag, tt.prayer, got.PrayerRequired, got.FastingRequired)
		}
	}
}

func TestResolveGuidanceTreatsUnknownStatusAsRequired(t *testing.T) {
	got := ResolveGuidance(models.DayType{Tag: "custom", Status: "unset"})
	if got.Status != models.StatusRequired || !got.PrayerRequired {
		t.Fatalf("expected required guidance for unknown status, got %+v", got)
	}
}

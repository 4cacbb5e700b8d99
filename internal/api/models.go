package api

import (
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/engine"
	"github.com/kofadam/asahi-x-family/internal/service/progress"
)

// SubmitReviewRequest is the body of POST /reviews/{id}/answer.
type SubmitReviewRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// CompleteLessonRequest is the body of POST /lessons/{id}/complete.
type CompleteLessonRequest struct {
	// Accuracy is a pointer so an explicit 0 is distinguishable from a
	// missing field.
	Accuracy *float64 `json:"accuracy" validate:"required,gte=0,lte=1"`
}

// PracticeRequest is the body of POST /practice.
type PracticeRequest struct {
	Kind    string  `json:"kind"    validate:"required,oneof=scenario module speed_drill anime_reading"`
	Count   int     `json:"count"   validate:"gte=0,lte=10000"`
	Seconds float64 `json:"seconds" validate:"gte=0"`
}

// ToPractice converts the request into an engine practice session.
func (p PracticeRequest) ToPractice() engine.Practice {
	return engine.Practice{
		Kind:    engine.PracticeKind(p.Kind),
		Count:   p.Count,
		Seconds: p.Seconds,
	}
}

// TravelModeRequest is the body of PUT /travel-mode.
type TravelModeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// PreferencesRequest is the body of PUT /preferences.
type PreferencesRequest struct {
	DailyGoal            int    `json:"daily_goal"            validate:"gte=0,lte=1440"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Theme                string `json:"theme"                 validate:"required,oneof=auto light dark"`
	DailyReminderTime    string `json:"daily_reminder_time"   validate:"required,datetime=15:04"`
	TimeZone             string `json:"time_zone"             validate:"required,timezone"`
}

// ToPreferences converts the request into domain preferences.
func (p PreferencesRequest) ToPreferences() domain.Preferences {
	return domain.Preferences{
		DailyGoal:            p.DailyGoal,
		NotificationsEnabled: p.NotificationsEnabled,
		Theme:                domain.Theme(p.Theme),
		DailyReminderTime:    p.DailyReminderTime,
		TimeZone:             p.TimeZone,
	}
}

// DueReviewsResponse wraps the due review list.
type DueReviewsResponse struct {
	Items []progress.DueReview `json:"items"`
	Count int                  `json:"count"`
}

package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Theme is the learner's preferred colour scheme.
type Theme string

// Supported themes
const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Validation errors for UserProfile
var (
	ErrEmptyProfileID = errors.New("profile ID cannot be empty")
	ErrNegativeXP     = errors.New("total XP cannot be negative")
)

// Preferences are learner-controlled settings. They never influence
// scheduling; the time zone only decides which calendar day an activity
// belongs to.
type Preferences struct {
	DailyGoal            int    `json:"daily_goal"` // minutes
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Theme                Theme  `json:"theme"`
	DailyReminderTime    string `json:"daily_reminder_time"` // HH:MM, local time
	TimeZone             string `json:"time_zone"`           // IANA name
}

// DefaultPreferences returns the settings a new learner starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		DailyGoal:            15,
		NotificationsEnabled: false,
		Theme:                ThemeAuto,
		DailyReminderTime:    "09:00",
		TimeZone:             "UTC",
	}
}

// Validate checks that the preferences can be interpreted.
func (p Preferences) Validate() error {
	if p.DailyGoal < 0 {
		return fmt.Errorf("%w: daily goal cannot be negative", ErrInvalidPreferences)
	}
	switch p.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidPreferences, p.Theme)
	}
	if _, _, err := p.ReminderClock(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(p.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", ErrInvalidPreferences, p.TimeZone)
	}
	return nil
}

// Location resolves the learner's time zone, falling back to UTC.
func (p Preferences) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReminderClock parses DailyReminderTime into an hour and minute.
func (p Preferences) ReminderClock() (int, int, error) {
	t, err := time.Parse("15:04", p.DailyReminderTime)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reminder time %q", ErrInvalidPreferences, p.DailyReminderTime)
	}
	return t.Hour(), t.Minute(), nil
}

// UserProfile is the learner's aggregate score card. Level is derived from
// TotalXP and StreakCount mirrors the streak tracker's current count.
type UserProfile struct {
	ID               uuid.UUID   `json:"id"`
	TotalXP          int         `json:"total_xp"`
	Level            int         `json:"level"`
	StreakCount      int         `json:"streak_count"`
	LastActivityDate Date        `json:"last_activity_date"`
	Achievements     []string    `json:"achievements"` // append-only, earn order
	Preferences      Preferences `json:"preferences"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// NewUserProfile creates the profile of a learner on first use.
func NewUserProfile(id uuid.UUID, now time.Time) (*UserProfile, error) {
	profile := &UserProfile{
		ID:           id,
		Level:        1,
		Achievements: []string{},
		Preferences:  DefaultPreferences(),
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Validate checks if the profile has valid data.
func (p *UserProfile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}
	if p.TotalXP < 0 {
		return ErrNegativeXP
	}
	return p.Preferences.Validate()
}

// HasAchievement reports whether the achievement id was already earned.
func (p UserProfile) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

// Clone returns a deep copy of the profile.
func (p UserProfile) Clone() UserProfile {
	p.Achievements = slices.Clone(p.Achievements)
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	return p
}

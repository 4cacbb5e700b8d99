package domain

import "slices"

// ProtectionKind names a rule that lets a gap in daily activity pass
// without breaking the streak.
type ProtectionKind string

// Supported protections, in the order they are checked.
const (
	ProtectionCulturalRest ProtectionKind = "cultural-rest"
	ProtectionTravelMode   ProtectionKind = "travel-mode"
)

// HistoryReason explains why a day appears in the streak history.
type HistoryReason string

// History reasons
const (
	ReasonStudy        HistoryReason = "study"
	ReasonCulturalRest HistoryReason = HistoryReason(ProtectionCulturalRest)
	ReasonTravelMode   HistoryReason = HistoryReason(ProtectionTravelMode)
)

// StreakHistoryEntry records one calendar day that counts toward the streak,
// either studied or protected.
type StreakHistoryEntry struct {
	Date      Date          `json:"date"`
	Completed bool          `json:"completed"`
	Protected bool          `json:"protected"`
	Reason    HistoryReason `json:"reason"`
}

// ProtectionUse is an audit record of a protection bridging a gap.
type ProtectionUse struct {
	Kind        ProtectionKind `json:"kind"`
	UsedOn      Date           `json:"used_on"` // the day activity resumed
	BridgedDays int            `json:"bridged_days"`
}

// TravelMode is the explicitly toggled travel protection.
type TravelMode struct {
	Active      bool `json:"active"`
	ActivatedOn Date `json:"activated_on"`
}

// ProtectionAvailability is a snapshot of which protections could apply,
// refreshed after every streak transition.
type ProtectionAvailability struct {
	CulturalRestAvailable bool `json:"cultural_rest_available"`
	TravelModeActive      bool `json:"travel_mode_active"`
}

// StreakState is the daily-activity streak of one learner.
type StreakState struct {
	Current         int                    `json:"current"`
	Longest         int                    `json:"longest"`
	LastStudyDate   Date                   `json:"last_study_date"`
	History         []StreakHistoryEntry   `json:"history"`
	ProtectionsUsed []ProtectionUse        `json:"protections_used"`
	TravelMode      TravelMode             `json:"travel_mode"`
	Availability    ProtectionAvailability `json:"availability"`
}

// LastProtectionUse returns the most recent use of the given protection.
func (s StreakState) LastProtectionUse(kind ProtectionKind) (ProtectionUse, bool) {
	for i := len(s.ProtectionsUsed) - 1; i >= 0; i-- {
		if s.ProtectionsUsed[i].Kind == kind {
			return s.ProtectionsUsed[i], true
		}
	}
	return ProtectionUse{}, false
}

// Clone returns a deep copy of the streak state.
func (s StreakState) Clone() StreakState {
	s.History = slices.Clone(s.History)
	s.ProtectionsUsed = slices.Clone(s.ProtectionsUsed)
	return s
}

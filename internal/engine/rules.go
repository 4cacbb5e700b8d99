package engine

// XPRules sets the experience awarded per activity. Lesson XP comes from the
// catalog; lessons also earn the streak bonus.
type XPRules struct {
	ReviewSuccess int `mapstructure:"review_success"`
	ReviewLapse   int `mapstructure:"review_lapse"`
	Scenario      int `mapstructure:"scenario"`
	Module        int `mapstructure:"module"`
	SpeedDrill    int `mapstructure:"speed_drill"`
	AnimeWord     int `mapstructure:"anime_word"`
}

// DefaultXPRules returns the standard XP table.
func DefaultXPRules() XPRules {
	return XPRules{
		ReviewSuccess: 10,
		ReviewLapse:   2,
		Scenario:      75,
		Module:        200,
		SpeedDrill:    25,
		AnimeWord:     5,
	}
}

// withDefaults replaces zero values with the defaults.
func (r XPRules) withDefaults() XPRules {
	d := DefaultXPRules()
	if r.ReviewSuccess == 0 {
		r.ReviewSuccess = d.ReviewSuccess
	}
	if r.ReviewLapse == 0 {
		r.ReviewLapse = d.ReviewLapse
	}
	if r.Scenario == 0 {
		r.Scenario = d.Scenario
	}
	if r.Module == 0 {
		r.Module = d.Module
	}
	if r.SpeedDrill == 0 {
		r.SpeedDrill = d.SpeedDrill
	}
	if r.AnimeWord == 0 {
		r.AnimeWord = d.AnimeWord
	}
	return r
}

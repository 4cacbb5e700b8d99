package streak

// Milestone is a streak length worth celebrating.
type Milestone struct {
	Days int    `json:"days"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

var milestones = []Milestone{
	{Days: 3, ID: "streak_3", Name: "Getting Started"},
	{Days: 7, ID: "streak_7", Name: "Week Warrior"},
	{Days: 14, ID: "streak_14", Name: "Two Week Champion"},
	{Days: 30, ID: "streak_30", Name: "Monthly Master"},
	{Days: 60, ID: "streak_60", Name: "Dedication Sensei"},
	{Days: 100, ID: "streak_100", Name: "Century Club"},
	{Days: 365, ID: "streak_365", Name: "Year of Learning"},
}

// MilestoneFor returns the milestone reached at exactly current days.
func MilestoneFor(current int) (Milestone, bool) {
	for _, m := range milestones {
		if m.Days == current {
			return m, true
		}
	}
	return Milestone{}, false
}

// Milestones returns all milestones in ascending order.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestones))
	copy(out, milestones)
	return out
}

// bonusSteps maps an exclusive upper streak bound to the XP bonus below it.
var bonusSteps = []struct {
	below int
	bonus int
}{
	{3, 0},
	{7, 5},
	{14, 10},
	{30, 15},
	{60, 20},
	{100, 25},
}

// Bonus is the extra XP granted per activity for a streak of current days.
func Bonus(current int) int {
	for _, step := range bonusSteps {
		if current < step.below {
			return step.bonus
		}
	}
	return 30
}

package models

// DailyFocus is the set of skills a user committed to for one calendar day
type DailyFocus struct {
	ID                int64
	UserID            int64
	Date              string // "YYYY-MM-DD"
	SkillIDs          []int64
	CompletedSkillIDs []int64
	IsDailyCompleted  bool
}

// Contains reports whether the focus set includes the given skill
func (f *DailyFocus) Contains(skillID int64) bool {
	for _, id := range f.SkillIDs {
		if id == skillID {
			return true
		}
	}
	return false
}

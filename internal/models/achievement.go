package models

import "time"

// Achievement criteria types
const (
	CriteriaTotalPoints      = "total_points"
	CriteriaStreakDays       = "streak_days"
	CriteriaCoursesCompleted = "courses_completed"
	CriteriaSkillsCompleted  = "skills_completed"
)

// Achievement is a badge definition
type Achievement struct {
	ID            int64
	Name          string
	Description   string
	Icon          string
	CriteriaType  string
	CriteriaValue int
	PointsReward  int
}

// UserAchievement records a badge unlock
type UserAchievement struct {
	UserID        int64
	AchievementID int64
	UnlockedAt    time.Time
}

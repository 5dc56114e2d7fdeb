package models

import "time"

// Skill types
const (
	SkillTypeCourse      = "course_skill"
	SkillTypeIndependent = "independent_habit"
)

// Repetition types
const (
	RepetitionSingle     = "single"
	RepetitionSequential = "sequential"
	RepetitionHabit      = "habit"
)

// UserSkill statuses
const (
	SkillStatusActive    = "active"
	SkillStatusPaused    = "paused"
	SkillStatusCompleted = "completed"
)

// Skill is a repeatable task definition (habit or course-linked practice)
type Skill struct {
	ID                  int64
	Title               string
	Description         string
	SkillType           string
	RepetitionType      string
	TargetStreak        int
	DurationDays        *int
	PointsPerCompletion int
	CourseID            *int64
	LessonDay           *int
	CooldownHours       int
	IsActive            bool
}

// Cooldown returns the skill's cooldown interval
func (s *Skill) Cooldown() time.Duration {
	return time.Duration(s.CooldownHours) * time.Hour
}

// UserSkill tracks one user's progress on one skill
type UserSkill struct {
	ID              int64
	UserID          int64
	SkillID         int64
	Status          string
	CurrentStreak   int
	TargetStreak    int
	LastCompletedAt *time.Time
	StartDate       string // "YYYY-MM-DD"
	EndDate         string
	InFocusToday    bool
	FocusDates      []string
	CompletedDates  []string
}

// UserSkillWithSkill pairs progress with its skill definition for listings
type UserSkillWithSkill struct {
	UserSkill UserSkill
	Skill     Skill
}

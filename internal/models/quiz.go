package models

import (
	"encoding/json"
	"time"
)

// Quiz modes
const (
	QuizModeInfinite = "infinite"
	QuizModeDaily    = "daily"
	QuizModeCategory = "category" // stored as "category_<name>"
)

// QuizQuestion is a trivia question from the shared pool
type QuizQuestion struct {
	ID           int64
	QuestionText string
	QuestionType string
	Options      []string
	CorrectIndex int
	Category     string
	Difficulty   int
	Explanation  string
	IsActive     bool
}

// CategoryStat is the per-category answer tally
type CategoryStat struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// UserQuizProgress is the running score for one user in one quiz mode
type UserQuizProgress struct {
	ID            int64
	UserID        int64
	QuizMode      string
	Score         int
	CurrentStreak int
	LongestStreak int
	TotalAnswered int
	TotalCorrect  int
	LastPlayed    *time.Time
	CategoryStats map[string]CategoryStat
}

// EncodeCategoryStats serializes category tallies for storage
func EncodeCategoryStats(stats map[string]CategoryStat) string {
	if stats == nil {
		stats = map[string]CategoryStat{}
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeCategoryStats parses stored category tallies
func DecodeCategoryStats(raw string) map[string]CategoryStat {
	stats := map[string]CategoryStat{}
	if raw == "" {
		return stats
	}
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return map[string]CategoryStat{}
	}
	return stats
}

// QuizSession is the persisted "current question" for a user.
// One row per user; asking a new question overwrites it.
type QuizSession struct {
	UserID     int64
	QuestionID int64
	QuizMode   string
	Category   string
	UpdatedAt  time.Time
}

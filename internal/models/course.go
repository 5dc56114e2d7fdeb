package models

import (
	"encoding/json"
	"time"
)

// Course progress statuses
const (
	CourseStatusActive    = "active"
	CourseStatusPaused    = "paused"
	CourseStatusCompleted = "completed"
	CourseStatusAbandoned = "abandoned"
)

// Lesson progress statuses
const (
	LessonStatusNotStarted = "not_started"
	LessonStatusStudied    = "studied"
	LessonStatusQuizPassed = "quiz_passed"
	LessonStatusCompleted  = "completed"
)

// Course is an ordered sequence of lessons keyed by day number
type Course struct {
	ID              int64
	Title           string
	Description     string
	Icon            string
	DifficultyLevel int
	TotalDays       int
	IsActive        bool
	SortOrder       int
}

// Lesson belongs to exactly one course
type Lesson struct {
	ID              int64
	CourseID        int64
	DayNumber       int
	Title           string
	ContentType     string // 'video', 'audio', 'text', 'mixed'
	ContentURL      string
	TextContent     string
	PDFURL          string
	Quiz            *LessonQuiz
	UnlockCondition string
}

// LessonQuiz is the optional quiz embedded in a lesson
type LessonQuiz struct {
	Questions []LessonQuizQuestion `json:"questions"`
}

// LessonQuizQuestion is a single embedded quiz question
type LessonQuizQuestion struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

// EncodeLessonQuiz serializes an embedded quiz for storage; nil encodes to empty
func EncodeLessonQuiz(q *LessonQuiz) string {
	if q == nil {
		return ""
	}
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeLessonQuiz parses a stored quiz blob; empty input yields nil
func DecodeLessonQuiz(raw string) *LessonQuiz {
	if raw == "" {
		return nil
	}
	var q LessonQuiz
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil
	}
	return &q
}

// UserCourseProgress tracks one user's position in one course
type UserCourseProgress struct {
	ID               int64
	UserID           int64
	CourseID         int64
	CurrentLessonDay int
	Status           string
	StartedAt        time.Time
	CompletedAt      *time.Time
	LastActivity     *time.Time
}

// UserLessonProgress tracks one user's status for one lesson
type UserLessonProgress struct {
	ID           int64
	UserID       int64
	LessonID     int64
	Status       string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	LastActivity *time.Time
}

// LessonAnswer is a recorded answer to one embedded quiz question
type LessonAnswer struct {
	Answer    int    `json:"answer"`
	Correct   bool   `json:"correct"`
	Timestamp string `json:"timestamp"`
}

// UserLessonQuiz tracks one user's answers to a lesson's embedded quiz,
// keyed by question index
type UserLessonQuiz struct {
	ID          int64
	UserID      int64
	LessonID    int64
	Attempts    int
	Answers     map[int]LessonAnswer
	LastScore   int
	Passed      bool
	CompletedAt *time.Time
}

// EncodeLessonAnswers serializes the answer map for storage
func EncodeLessonAnswers(answers map[int]LessonAnswer) string {
	if answers == nil {
		answers = map[int]LessonAnswer{}
	}
	data, err := json.Marshal(answers)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeLessonAnswers parses a stored answer map
func DecodeLessonAnswers(raw string) map[int]LessonAnswer {
	answers := map[int]LessonAnswer{}
	if raw == "" {
		return answers
	}
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return map[int]LessonAnswer{}
	}
	return answers
}

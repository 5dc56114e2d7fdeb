package repository

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// LessonRepository handles lesson content and per-lesson progress/quiz rows
type LessonRepository struct {
	db database.DBTX
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db database.DBTX) *LessonRepository {
	return &LessonRepository{db: db}
}

const lessonColumns = `id, course_id, day_number, title, content_type,
       content_url, text_content, pdf_url, quiz, unlock_condition`

func scanLesson(row interface{ Scan(...interface{}) error }) (*models.Lesson, error) {
	lesson := &models.Lesson{}
	var contentURL, textContent, pdfURL, quiz sql.NullString

	err := row.Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.DayNumber,
		&lesson.Title,
		&lesson.ContentType,
		&contentURL,
		&textContent,
		&pdfURL,
		&quiz,
		&lesson.UnlockCondition,
	)
	if err != nil {
		return nil, err
	}

	lesson.ContentURL = contentURL.String
	lesson.TextContent = textContent.String
	lesson.PDFURL = pdfURL.String
	lesson.Quiz = models.DecodeLessonQuiz(quiz.String)
	return lesson, nil
}

// GetByID retrieves a lesson by id
func (r *LessonRepository) GetByID(id int64) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = ?`
	return scanLesson(r.db.QueryRow(query, id))
}

// GetByCourseDay retrieves the lesson for a given course day
func (r *LessonRepository) GetByCourseDay(courseID int64, dayNumber int) (*models.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = ? AND day_number = ?`
	return scanLesson(r.db.QueryRow(query, courseID, dayNumber))
}

// Create inserts a lesson (import/seed tooling)
func (r *LessonRepository) Create(lesson *models.Lesson) (int64, error) {
	query := `
		INSERT INTO lessons (course_id, day_number, title, content_type, content_url,
		       text_content, pdf_url, quiz, unlock_condition)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, lesson.CourseID, lesson.DayNumber, lesson.Title,
		lesson.ContentType, lesson.ContentURL, lesson.TextContent, lesson.PDFURL,
		models.EncodeLessonQuiz(lesson.Quiz), lesson.UnlockCondition)
}

func scanLessonProgress(row interface{ Scan(...interface{}) error }) (*models.UserLessonProgress, error) {
	progress := &models.UserLessonProgress{}
	var startedAt, completedAt, lastActivity sql.NullTime

	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.LessonID,
		&progress.Status,
		&startedAt,
		&completedAt,
		&lastActivity,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		progress.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	if lastActivity.Valid {
		progress.LastActivity = &lastActivity.Time
	}
	return progress, nil
}

// GetProgress retrieves a user's progress on a lesson
func (r *LessonRepository) GetProgress(userID, lessonID int64) (*models.UserLessonProgress, error) {
	query := `
		SELECT id, user_id, lesson_id, status, started_at, completed_at, last_activity
		FROM user_lesson_progress
		WHERE user_id = ? AND lesson_id = ?
	`
	return scanLessonProgress(r.db.QueryRow(query, userID, lessonID))
}

// CreateProgress inserts a lesson progress row
func (r *LessonRepository) CreateProgress(userID, lessonID int64, status string, now time.Time) (*models.UserLessonProgress, error) {
	query := `
		INSERT INTO user_lesson_progress (user_id, lesson_id, status, started_at, last_activity)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecReturningID(query, userID, lessonID, status, now, now)
	if err != nil {
		return nil, err
	}

	return r.GetProgress(userID, lessonID)
}

// UpdateProgressStatus sets the lesson status; completedAt may be nil
func (r *LessonRepository) UpdateProgressStatus(progressID int64, status string, completedAt *time.Time, lastActivity time.Time) error {
	var completed sql.NullTime
	if completedAt != nil {
		completed = sql.NullTime{Time: *completedAt, Valid: true}
	}
	_, err := r.db.Exec("UPDATE user_lesson_progress SET status = ?, completed_at = ?, last_activity = ? WHERE id = ?",
		status, completed, lastActivity, progressID)
	return err
}

// GetQuizResult retrieves a user's answers for a lesson quiz
func (r *LessonRepository) GetQuizResult(userID, lessonID int64) (*models.UserLessonQuiz, error) {
	query := `
		SELECT id, user_id, lesson_id, attempts, answers, last_score, passed, completed_at
		FROM user_lesson_quiz
		WHERE user_id = ? AND lesson_id = ?
	`

	result := &models.UserLessonQuiz{}
	var answers string
	var completedAt sql.NullTime

	err := r.db.QueryRow(query, userID, lessonID).Scan(
		&result.ID,
		&result.UserID,
		&result.LessonID,
		&result.Attempts,
		&answers,
		&result.LastScore,
		&result.Passed,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	result.Answers = models.DecodeLessonAnswers(answers)
	if completedAt.Valid {
		result.CompletedAt = &completedAt.Time
	}
	return result, nil
}

// CreateQuizResult inserts an empty quiz result row
func (r *LessonRepository) CreateQuizResult(userID, lessonID int64) (*models.UserLessonQuiz, error) {
	query := `
		INSERT INTO user_lesson_quiz (user_id, lesson_id, attempts, answers)
		VALUES (?, ?, 0, '{}')
	`

	_, err := r.db.ExecReturningID(query, userID, lessonID)
	if err != nil {
		return nil, err
	}

	return r.GetQuizResult(userID, lessonID)
}

// UpdateQuizResult writes back the answer map and score
func (r *LessonRepository) UpdateQuizResult(result *models.UserLessonQuiz) error {
	var completedAt sql.NullTime
	if result.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *result.CompletedAt, Valid: true}
	}
	_, err := r.db.Exec(`
		UPDATE user_lesson_quiz
		SET attempts = ?, answers = ?, last_score = ?, passed = ?, completed_at = ?
		WHERE id = ?`,
		result.Attempts, models.EncodeLessonAnswers(result.Answers), result.LastScore,
		result.Passed, completedAt, result.ID)
	return err
}

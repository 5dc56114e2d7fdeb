package repository

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// QuizRepository handles the trivia question pool, per-mode progress
// and the persisted question session
type QuizRepository struct {
	db database.DBTX
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(db database.DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

const questionColumns = `id, question_text, question_type, options, correct_answer,
       category, difficulty, explanation, is_active`

func scanQuestion(row interface{ Scan(...interface{}) error }) (*models.QuizQuestion, error) {
	q := &models.QuizQuestion{}
	var options string
	var explanation sql.NullString

	err := row.Scan(
		&q.ID,
		&q.QuestionText,
		&q.QuestionType,
		&options,
		&q.CorrectIndex,
		&q.Category,
		&q.Difficulty,
		&explanation,
		&q.IsActive,
	)
	if err != nil {
		return nil, err
	}

	q.Options = models.DecodeStringList(options)
	q.Explanation = explanation.String
	return q, nil
}

// GetQuestion retrieves a question by id
func (r *QuizRepository) GetQuestion(id int64) (*models.QuizQuestion, error) {
	query := `SELECT ` + questionColumns + ` FROM quiz_questions WHERE id = ?`
	return scanQuestion(r.db.QueryRow(query, id))
}

// ListActiveQuestions retrieves the active pool, optionally filtered by category
func (r *QuizRepository) ListActiveQuestions(category string) ([]models.QuizQuestion, error) {
	query := `SELECT ` + questionColumns + ` FROM quiz_questions WHERE is_active = ?`
	args := []interface{}{true}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	return questions, rows.Err()
}

// ListCategories retrieves the distinct categories of the active pool
func (r *QuizRepository) ListCategories() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT category FROM quiz_questions WHERE is_active = ? ORDER BY category", true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// CreateQuestion inserts a question (import/seed tooling)
func (r *QuizRepository) CreateQuestion(q *models.QuizQuestion) (int64, error) {
	query := `
		INSERT INTO quiz_questions (question_text, question_type, options, correct_answer,
		       category, difficulty, explanation, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, q.QuestionText, q.QuestionType,
		models.EncodeStringList(q.Options), q.CorrectIndex, q.Category,
		q.Difficulty, q.Explanation, q.IsActive)
}

const quizProgressColumns = `id, user_id, quiz_mode, score, current_streak, longest_streak,
       total_answered, total_correct, last_played, category_stats`

func scanQuizProgress(row interface{ Scan(...interface{}) error }) (*models.UserQuizProgress, error) {
	progress := &models.UserQuizProgress{}
	var lastPlayed sql.NullTime
	var stats string

	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.QuizMode,
		&progress.Score,
		&progress.CurrentStreak,
		&progress.LongestStreak,
		&progress.TotalAnswered,
		&progress.TotalCorrect,
		&lastPlayed,
		&stats,
	)
	if err != nil {
		return nil, err
	}

	if lastPlayed.Valid {
		progress.LastPlayed = &lastPlayed.Time
	}
	progress.CategoryStats = models.DecodeCategoryStats(stats)
	return progress, nil
}

// GetProgress retrieves a user's score row for a quiz mode
func (r *QuizRepository) GetProgress(userID int64, quizMode string) (*models.UserQuizProgress, error) {
	query := `SELECT ` + quizProgressColumns + ` FROM user_quiz_progress WHERE user_id = ? AND quiz_mode = ?`
	return scanQuizProgress(r.db.QueryRow(query, userID, quizMode))
}

// CreateProgress inserts a zeroed score row for a quiz mode
func (r *QuizRepository) CreateProgress(userID int64, quizMode string) (*models.UserQuizProgress, error) {
	query := `
		INSERT INTO user_quiz_progress (user_id, quiz_mode, category_stats)
		VALUES (?, ?, '{}')
	`

	_, err := r.db.ExecReturningID(query, userID, quizMode)
	if err != nil {
		return nil, err
	}

	return r.GetProgress(userID, quizMode)
}

// UpdateProgress writes back the score counters
func (r *QuizRepository) UpdateProgress(progress *models.UserQuizProgress) error {
	var lastPlayed sql.NullTime
	if progress.LastPlayed != nil {
		lastPlayed = sql.NullTime{Time: *progress.LastPlayed, Valid: true}
	}

	_, err := r.db.Exec(`
		UPDATE user_quiz_progress
		SET score = ?, current_streak = ?, longest_streak = ?, total_answered = ?,
		    total_correct = ?, last_played = ?, category_stats = ?
		WHERE id = ?`,
		progress.Score, progress.CurrentStreak, progress.LongestStreak,
		progress.TotalAnswered, progress.TotalCorrect, lastPlayed,
		models.EncodeCategoryStats(progress.CategoryStats), progress.ID)
	return err
}

// GetSession retrieves the user's pending question, if any
func (r *QuizRepository) GetSession(userID int64) (*models.QuizSession, error) {
	session := &models.QuizSession{}
	var category sql.NullString

	err := r.db.QueryRow(`
		SELECT user_id, question_id, quiz_mode, category, updated_at
		FROM quiz_sessions
		WHERE user_id = ?`, userID).Scan(
		&session.UserID,
		&session.QuestionID,
		&session.QuizMode,
		&category,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Category = category.String
	return session, nil
}

// SetSession replaces the user's pending question. Delete-then-insert
// keeps the upsert portable across dialects.
func (r *QuizRepository) SetSession(session *models.QuizSession) error {
	if _, err := r.db.Exec("DELETE FROM quiz_sessions WHERE user_id = ?", session.UserID); err != nil {
		return err
	}

	_, err := r.db.Exec(`
		INSERT INTO quiz_sessions (user_id, question_id, quiz_mode, category, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.UserID, session.QuestionID, session.QuizMode, session.Category, time.Now())
	return err
}

// ClearSession removes the user's pending question
func (r *QuizRepository) ClearSession(userID int64) error {
	_, err := r.db.Exec("DELETE FROM quiz_sessions WHERE user_id = ?", userID)
	return err
}

package repository

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// CourseRepository handles course and course-progress database operations
type CourseRepository struct {
	db database.DBTX
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db database.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row interface{ Scan(...interface{}) error }) (*models.Course, error) {
	course := &models.Course{}
	var description, icon sql.NullString

	err := row.Scan(
		&course.ID,
		&course.Title,
		&description,
		&icon,
		&course.DifficultyLevel,
		&course.TotalDays,
		&course.IsActive,
		&course.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	course.Description = description.String
	course.Icon = icon.String
	return course, nil
}

const courseColumns = "id, title, description, icon, difficulty_level, total_days, is_active, sort_order"

// ListActive retrieves all active courses in display order
func (r *CourseRepository) ListActive() ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE is_active = ? ORDER BY sort_order, id`

	rows, err := r.db.Query(query, true)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}

	return courses, rows.Err()
}

// GetByID retrieves a course by id
func (r *CourseRepository) GetByID(id int64) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	return scanCourse(r.db.QueryRow(query, id))
}

// Create inserts a course definition (import/seed tooling)
func (r *CourseRepository) Create(course *models.Course) (int64, error) {
	query := `
		INSERT INTO courses (title, description, icon, difficulty_level, total_days, is_active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, course.Title, course.Description, course.Icon,
		course.DifficultyLevel, course.TotalDays, course.IsActive, course.SortOrder)
}

// Count returns the number of course rows
func (r *CourseRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM courses").Scan(&count)
	return count, err
}

func scanCourseProgress(row interface{ Scan(...interface{}) error }) (*models.UserCourseProgress, error) {
	progress := &models.UserCourseProgress{}
	var completedAt, lastActivity sql.NullTime

	err := row.Scan(
		&progress.ID,
		&progress.UserID,
		&progress.CourseID,
		&progress.CurrentLessonDay,
		&progress.Status,
		&progress.StartedAt,
		&completedAt,
		&lastActivity,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		progress.CompletedAt = &completedAt.Time
	}
	if lastActivity.Valid {
		progress.LastActivity = &lastActivity.Time
	}
	return progress, nil
}

const progressColumns = "id, user_id, course_id, current_lesson_day, status, started_at, completed_at, last_activity"

// GetProgress retrieves a user's progress in a course
func (r *CourseRepository) GetProgress(userID, courseID int64) (*models.UserCourseProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_course_progress WHERE user_id = ? AND course_id = ?`
	return scanCourseProgress(r.db.QueryRow(query, userID, courseID))
}

// CreateProgress starts a user on day 1 of a course
func (r *CourseRepository) CreateProgress(userID, courseID int64) (*models.UserCourseProgress, error) {
	query := `
		INSERT INTO user_course_progress (user_id, course_id, current_lesson_day, status, started_at)
		VALUES (?, ?, 1, ?, ?)
	`

	_, err := r.db.ExecReturningID(query, userID, courseID, models.CourseStatusActive, time.Now())
	if err != nil {
		return nil, err
	}

	return r.GetProgress(userID, courseID)
}

// UpdateProgressDay advances the unlocked lesson day
func (r *CourseRepository) UpdateProgressDay(progressID int64, day int, lastActivity time.Time) error {
	_, err := r.db.Exec("UPDATE user_course_progress SET current_lesson_day = ?, last_activity = ? WHERE id = ?",
		day, lastActivity, progressID)
	return err
}

// UpdateProgressStatus sets the progress status; completedAt may be nil
func (r *CourseRepository) UpdateProgressStatus(progressID int64, status string, completedAt *time.Time) error {
	var completed sql.NullTime
	if completedAt != nil {
		completed = sql.NullTime{Time: *completedAt, Valid: true}
	}
	_, err := r.db.Exec("UPDATE user_course_progress SET status = ?, completed_at = ? WHERE id = ?",
		status, completed, progressID)
	return err
}

// TouchProgress stamps last activity
func (r *CourseRepository) TouchProgress(progressID int64, lastActivity time.Time) error {
	_, err := r.db.Exec("UPDATE user_course_progress SET last_activity = ? WHERE id = ?",
		lastActivity, progressID)
	return err
}

// ListProgressByUser retrieves all course progress rows for a user
func (r *CourseRepository) ListProgressByUser(userID int64) ([]models.UserCourseProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_course_progress WHERE user_id = ?`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.UserCourseProgress
	for rows.Next() {
		progress, err := scanCourseProgress(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *progress)
	}

	return list, rows.Err()
}

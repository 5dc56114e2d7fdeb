package repository

import (
	"database/sql"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// SkillRepository handles skill definitions and per-user skill progress
type SkillRepository struct {
	db database.DBTX
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db database.DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

const skillColumns = `id, title, description, skill_type, repetition_type, target_streak,
       duration_days, points_per_completion, course_id, lesson_day, cooldown_hours, is_active`

func scanSkill(row interface{ Scan(...interface{}) error }) (*models.Skill, error) {
	skill := &models.Skill{}
	var durationDays, lessonDay sql.NullInt64
	var courseID sql.NullInt64

	err := row.Scan(
		&skill.ID,
		&skill.Title,
		&skill.Description,
		&skill.SkillType,
		&skill.RepetitionType,
		&skill.TargetStreak,
		&durationDays,
		&skill.PointsPerCompletion,
		&courseID,
		&lessonDay,
		&skill.CooldownHours,
		&skill.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if durationDays.Valid {
		days := int(durationDays.Int64)
		skill.DurationDays = &days
	}
	if courseID.Valid {
		id := courseID.Int64
		skill.CourseID = &id
	}
	if lessonDay.Valid {
		day := int(lessonDay.Int64)
		skill.LessonDay = &day
	}
	return skill, nil
}

// GetByID retrieves a skill definition by id
func (r *SkillRepository) GetByID(id int64) (*models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = ?`
	return scanSkill(r.db.QueryRow(query, id))
}

// ListActive retrieves the active skill catalog
func (r *SkillRepository) ListActive() ([]models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE is_active = ? ORDER BY id`
	return r.listSkills(query, true)
}

// ListActiveByCourseDay retrieves active skills tied to a course day
func (r *SkillRepository) ListActiveByCourseDay(courseID int64, lessonDay int) ([]models.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE course_id = ? AND lesson_day = ? AND is_active = ?`
	return r.listSkills(query, courseID, lessonDay, true)
}

func (r *SkillRepository) listSkills(query string, args ...interface{}) ([]models.Skill, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, *skill)
	}

	return skills, rows.Err()
}

// Create inserts a skill definition (import/seed tooling)
func (r *SkillRepository) Create(skill *models.Skill) (int64, error) {
	var durationDays, courseID, lessonDay interface{}
	if skill.DurationDays != nil {
		durationDays = *skill.DurationDays
	}
	if skill.CourseID != nil {
		courseID = *skill.CourseID
	}
	if skill.LessonDay != nil {
		lessonDay = *skill.LessonDay
	}

	query := `
		INSERT INTO skills (title, description, skill_type, repetition_type, target_streak,
		       duration_days, points_per_completion, course_id, lesson_day, cooldown_hours, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, skill.Title, skill.Description, skill.SkillType,
		skill.RepetitionType, skill.TargetStreak, durationDays, skill.PointsPerCompletion,
		courseID, lessonDay, skill.CooldownHours, skill.IsActive)
}

const userSkillColumns = `id, user_id, skill_id, status, current_streak, target_streak,
       last_completed_at, start_date, end_date, in_focus_today, focus_dates, completed_dates`

func scanUserSkill(row interface{ Scan(...interface{}) error }) (*models.UserSkill, error) {
	us := &models.UserSkill{}
	var lastCompletedAt sql.NullTime
	var endDate sql.NullString
	var focusDates, completedDates string

	err := row.Scan(
		&us.ID,
		&us.UserID,
		&us.SkillID,
		&us.Status,
		&us.CurrentStreak,
		&us.TargetStreak,
		&lastCompletedAt,
		&us.StartDate,
		&endDate,
		&us.InFocusToday,
		&focusDates,
		&completedDates,
	)
	if err != nil {
		return nil, err
	}

	if lastCompletedAt.Valid {
		us.LastCompletedAt = &lastCompletedAt.Time
	}
	us.EndDate = endDate.String
	us.FocusDates = models.DecodeStringList(focusDates)
	us.CompletedDates = models.DecodeStringList(completedDates)
	return us, nil
}

// GetUserSkill retrieves a user's progress on a skill
func (r *SkillRepository) GetUserSkill(userID, skillID int64) (*models.UserSkill, error) {
	query := `SELECT ` + userSkillColumns + ` FROM user_skills WHERE user_id = ? AND skill_id = ?`
	return scanUserSkill(r.db.QueryRow(query, userID, skillID))
}

// CreateUserSkill starts a user on a skill
func (r *SkillRepository) CreateUserSkill(userID, skillID int64, targetStreak int, startDate, endDate string) (*models.UserSkill, error) {
	var end interface{}
	if endDate != "" {
		end = endDate
	}

	query := `
		INSERT INTO user_skills (user_id, skill_id, status, current_streak, target_streak,
		       start_date, end_date, in_focus_today, focus_dates, completed_dates)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?, '[]', '[]')
	`

	_, err := r.db.ExecReturningID(query, userID, skillID, models.SkillStatusActive,
		targetStreak, startDate, end, false)
	if err != nil {
		return nil, err
	}

	return r.GetUserSkill(userID, skillID)
}

// UpdateUserSkill writes back mutable progress fields
func (r *SkillRepository) UpdateUserSkill(us *models.UserSkill) error {
	var lastCompleted sql.NullTime
	if us.LastCompletedAt != nil {
		lastCompleted = sql.NullTime{Time: *us.LastCompletedAt, Valid: true}
	}

	_, err := r.db.Exec(`
		UPDATE user_skills
		SET status = ?, current_streak = ?, last_completed_at = ?, in_focus_today = ?,
		    focus_dates = ?, completed_dates = ?
		WHERE id = ?`,
		us.Status, us.CurrentStreak, lastCompleted, us.InFocusToday,
		models.EncodeStringList(us.FocusDates), models.EncodeStringList(us.CompletedDates),
		us.ID)
	return err
}

// ListUserSkills retrieves all of a user's skill progress rows with definitions
func (r *SkillRepository) ListUserSkills(userID int64) ([]models.UserSkillWithSkill, error) {
	query := `
		SELECT us.id, us.user_id, us.skill_id, us.status, us.current_streak, us.target_streak,
		       us.last_completed_at, us.start_date, us.end_date, us.in_focus_today,
		       us.focus_dates, us.completed_dates,
		       s.id, s.title, s.description, s.skill_type, s.repetition_type, s.target_streak,
		       s.duration_days, s.points_per_completion, s.course_id, s.lesson_day,
		       s.cooldown_hours, s.is_active
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = ?
		ORDER BY us.start_date DESC, us.id DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.UserSkillWithSkill
	for rows.Next() {
		var us models.UserSkill
		var skill models.Skill
		var lastCompletedAt sql.NullTime
		var endDate sql.NullString
		var focusDates, completedDates string
		var durationDays, courseID, lessonDay sql.NullInt64

		err := rows.Scan(
			&us.ID, &us.UserID, &us.SkillID, &us.Status, &us.CurrentStreak, &us.TargetStreak,
			&lastCompletedAt, &us.StartDate, &endDate, &us.InFocusToday,
			&focusDates, &completedDates,
			&skill.ID, &skill.Title, &skill.Description, &skill.SkillType, &skill.RepetitionType,
			&skill.TargetStreak, &durationDays, &skill.PointsPerCompletion, &courseID, &lessonDay,
			&skill.CooldownHours, &skill.IsActive,
		)
		if err != nil {
			return nil, err
		}

		if lastCompletedAt.Valid {
			us.LastCompletedAt = &lastCompletedAt.Time
		}
		us.EndDate = endDate.String
		us.FocusDates = models.DecodeStringList(focusDates)
		us.CompletedDates = models.DecodeStringList(completedDates)

		if durationDays.Valid {
			days := int(durationDays.Int64)
			skill.DurationDays = &days
		}
		if courseID.Valid {
			id := courseID.Int64
			skill.CourseID = &id
		}
		if lessonDay.Valid {
			day := int(lessonDay.Int64)
			skill.LessonDay = &day
		}

		list = append(list, models.UserSkillWithSkill{UserSkill: us, Skill: skill})
	}

	return list, rows.Err()
}

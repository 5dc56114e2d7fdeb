package repository

import (
	"habitquest/internal/database"
	"habitquest/internal/models"
)

// FocusRepository handles the per-day focus set
type FocusRepository struct {
	db database.DBTX
}

// NewFocusRepository creates a new focus repository
func NewFocusRepository(db database.DBTX) *FocusRepository {
	return &FocusRepository{db: db}
}

func scanFocus(row interface{ Scan(...interface{}) error }) (*models.DailyFocus, error) {
	focus := &models.DailyFocus{}
	var skillIDs, completedIDs string

	err := row.Scan(
		&focus.ID,
		&focus.UserID,
		&focus.Date,
		&skillIDs,
		&completedIDs,
		&focus.IsDailyCompleted,
	)
	if err != nil {
		return nil, err
	}

	focus.SkillIDs = models.DecodeInt64List(skillIDs)
	focus.CompletedSkillIDs = models.DecodeInt64List(completedIDs)
	return focus, nil
}

// Get retrieves the focus set for a user on a calendar date
func (r *FocusRepository) Get(userID int64, date string) (*models.DailyFocus, error) {
	query := `
		SELECT id, user_id, focus_date, skill_ids, completed_skill_ids, is_daily_completed
		FROM daily_focus
		WHERE user_id = ? AND focus_date = ?
	`
	return scanFocus(r.db.QueryRow(query, userID, date))
}

// Create inserts an empty focus set for the date
func (r *FocusRepository) Create(userID int64, date string) (*models.DailyFocus, error) {
	query := `
		INSERT INTO daily_focus (user_id, focus_date, skill_ids, completed_skill_ids, is_daily_completed)
		VALUES (?, ?, '[]', '[]', ?)
	`

	_, err := r.db.ExecReturningID(query, userID, date, false)
	if err != nil {
		return nil, err
	}

	return r.Get(userID, date)
}

// Update writes back the skill lists and completion flag
func (r *FocusRepository) Update(focus *models.DailyFocus) error {
	_, err := r.db.Exec(`
		UPDATE daily_focus
		SET skill_ids = ?, completed_skill_ids = ?, is_daily_completed = ?
		WHERE id = ?`,
		models.EncodeInt64List(focus.SkillIDs),
		models.EncodeInt64List(focus.CompletedSkillIDs),
		focus.IsDailyCompleted,
		focus.ID)
	return err
}

package repository

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// AchievementRepository handles badge definitions and unlocks
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

const achievementColumns = "id, name, description, icon, criteria_type, criteria_value, points_reward"

func scanAchievement(row interface{ Scan(...interface{}) error }) (*models.Achievement, error) {
	a := &models.Achievement{}
	var description, icon sql.NullString

	err := row.Scan(
		&a.ID,
		&a.Name,
		&description,
		&icon,
		&a.CriteriaType,
		&a.CriteriaValue,
		&a.PointsReward,
	)
	if err != nil {
		return nil, err
	}

	a.Description = description.String
	a.Icon = icon.String
	return a, nil
}

// List retrieves all badge definitions
func (r *AchievementRepository) List() ([]models.Achievement, error) {
	query := `SELECT ` + achievementColumns + ` FROM achievements ORDER BY criteria_type, criteria_value`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, *a)
	}

	return achievements, rows.Err()
}

// Create inserts a badge definition (import/seed tooling)
func (r *AchievementRepository) Create(a *models.Achievement) (int64, error) {
	query := `
		INSERT INTO achievements (name, description, icon, criteria_type, criteria_value, points_reward)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, a.Name, a.Description, a.Icon,
		a.CriteriaType, a.CriteriaValue, a.PointsReward)
}

// ListUnlocked retrieves the ids of badges the user already holds
func (r *AchievementRepository) ListUnlocked(userID int64) (map[int64]bool, error) {
	rows, err := r.db.Query("SELECT achievement_id FROM user_achievements WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unlocked := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		unlocked[id] = true
	}

	return unlocked, rows.Err()
}

// Unlock records a badge for the user
func (r *AchievementRepository) Unlock(userID, achievementID int64) error {
	_, err := r.db.Exec("INSERT INTO user_achievements (user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)",
		userID, achievementID, time.Now())
	return err
}

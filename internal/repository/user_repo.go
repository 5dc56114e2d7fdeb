package repository

import (
	"database/sql"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, telegram_id, username, full_name, language_code,
       points, current_streak, longest_streak, settings, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var username, fullName, settings sql.NullString

	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&username,
		&fullName,
		&user.LanguageCode,
		&user.Points,
		&user.CurrentStreak,
		&user.LongestStreak,
		&settings,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Username = username.String
	user.FullName = fullName.String
	user.Settings = models.DecodeSettings(settings.String)
	return user, nil
}

// GetByTelegramID retrieves a user by Telegram id
func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = ?`
	return scanUser(r.db.QueryRow(query, telegramID))
}

// GetByID retrieves a user by internal id
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id))
}

// Create inserts a new user with default settings
func (r *UserRepository) Create(telegramID int64, username, fullName, languageCode string) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, username, full_name, language_code, settings)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, telegramID, username, fullName, languageCode,
		models.EncodeSettings(models.DefaultSettings()))
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// AddPoints credits points to the user's ledger
func (r *UserRepository) AddPoints(userID int64, points int) error {
	_, err := r.db.Exec("UPDATE users SET points = points + ? WHERE id = ?", points, userID)
	return err
}

// UpdateStreak sets the activity streak counters
func (r *UserRepository) UpdateStreak(userID int64, current, longest int) error {
	_, err := r.db.Exec("UPDATE users SET current_streak = ?, longest_streak = ? WHERE id = ?",
		current, longest, userID)
	return err
}

// UpdateSettings replaces the settings blob
func (r *UserRepository) UpdateSettings(userID int64, settings models.UserSettings) error {
	_, err := r.db.Exec("UPDATE users SET settings = ? WHERE id = ?",
		models.EncodeSettings(settings), userID)
	return err
}

// ListAll retrieves every known user, oldest first
func (r *UserRepository) ListAll() ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

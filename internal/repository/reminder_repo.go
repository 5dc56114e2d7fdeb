package repository

import (
	"database/sql"

	"habitquest/internal/database"
)

// ReminderRepository records which scheduled reminders went out on which day,
// so a restart never resends the same reminder
type ReminderRepository struct {
	db database.DBTX
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db database.DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// WasSent reports whether the named reminder already went out on the date
func (r *ReminderRepository) WasSent(name, date string) (bool, error) {
	var one int
	err := r.db.QueryRow("SELECT 1 FROM reminder_log WHERE name = ? AND sent_on = ?", name, date).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkSent records that the named reminder went out on the date
func (r *ReminderRepository) MarkSent(name, date string) error {
	_, err := r.db.Exec("INSERT INTO reminder_log (name, sent_on) VALUES (?, ?)", name, date)
	return err
}

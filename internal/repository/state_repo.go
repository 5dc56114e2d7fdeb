package repository

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
)

// StateRepository handles the persisted per-chat conversational state
type StateRepository struct {
	db database.DBTX
}

// NewStateRepository creates a new state repository
func NewStateRepository(db database.DBTX) *StateRepository {
	return &StateRepository{db: db}
}

// Get retrieves the conversational state for a Telegram user.
// Users without a row are idle.
func (r *StateRepository) Get(telegramID int64) (*models.ChatState, error) {
	state := &models.ChatState{UserID: telegramID}
	err := r.db.QueryRow("SELECT state, data, updated_at FROM chat_states WHERE user_id = ?", telegramID).
		Scan(&state.State, &state.Data, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return &models.ChatState{UserID: telegramID, State: models.StateIdle}, nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Set replaces the conversational state for a Telegram user.
// Delete-then-insert keeps the upsert portable across dialects.
func (r *StateRepository) Set(telegramID int64, state, data string) error {
	if _, err := r.db.Exec("DELETE FROM chat_states WHERE user_id = ?", telegramID); err != nil {
		return err
	}
	_, err := r.db.Exec("INSERT INTO chat_states (user_id, state, data, updated_at) VALUES (?, ?, ?, ?)",
		telegramID, state, data, time.Now())
	return err
}

// Clear returns the user to the idle state
func (r *StateRepository) Clear(telegramID int64) error {
	_, err := r.db.Exec("DELETE FROM chat_states WHERE user_id = ?", telegramID)
	return err
}

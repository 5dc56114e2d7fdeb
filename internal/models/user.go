package models

import (
	"encoding/json"
	"time"
)

// User represents a Telegram user known to the bot
type User struct {
	ID            int64
	TelegramID    int64
	Username      string
	FullName      string
	LanguageCode  string
	Points        int
	CurrentStreak int
	LongestStreak int
	Settings      UserSettings
	CreatedAt     time.Time
}

// UserSettings is the free-form settings blob stored on the user row
type UserSettings struct {
	Notifications bool   `json:"notifications"`
	DailyReminder string `json:"daily_reminder"`
}

// DefaultSettings returns the settings applied to newly created users
func DefaultSettings() UserSettings {
	return UserSettings{
		Notifications: true,
		DailyReminder: "20:00",
	}
}

// EncodeSettings serializes settings for storage
func EncodeSettings(s UserSettings) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `{"notifications":true,"daily_reminder":"20:00"}`
	}
	return string(data)
}

// DecodeSettings parses a stored settings blob, falling back to defaults
func DecodeSettings(raw string) UserSettings {
	s := DefaultSettings()
	if raw == "" {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DefaultSettings()
	}
	return s
}

// DisplayName returns the best available name for message personalization
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return "friend"
}

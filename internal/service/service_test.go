package service

import (
	"path/filepath"
	"testing"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// newTestDB opens a file-backed SQLite database in a temp dir and runs
// the real migrations against it
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *database.DB, telegramID int64) *models.User {
	t.Helper()

	user, err := repository.NewUserRepository(db).Create(telegramID, "tester", "Test User", "en")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// createTestSkill inserts a skill definition, filling in habit defaults
func createTestSkill(t *testing.T, db *database.DB, skill *models.Skill) int64 {
	t.Helper()

	if skill.SkillType == "" {
		skill.SkillType = models.SkillTypeIndependent
	}
	if skill.RepetitionType == "" {
		skill.RepetitionType = models.RepetitionHabit
	}
	if skill.PointsPerCompletion == 0 {
		skill.PointsPerCompletion = 10
	}
	if skill.CooldownHours == 0 {
		skill.CooldownHours = 24
	}
	skill.IsActive = true

	id, err := repository.NewSkillRepository(db).Create(skill)
	if err != nil {
		t.Fatalf("Failed to create test skill: %v", err)
	}
	return id
}

func userPoints(t *testing.T, db *database.DB, userID int64) int {
	t.Helper()

	user, err := repository.NewUserRepository(db).GetByID(userID)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	return user.Points
}

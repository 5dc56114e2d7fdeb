package service

import (
	"errors"
	"testing"
	"time"

	"habitquest/internal/models"
)

func TestCompleteUnknownSkill(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1000)

	_, err := svc.Complete(user.ID, 9999, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Complete() error = %v, want ErrNotFound", err)
	}
}

func TestCompleteUntrackedSkillStartsTracking(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1001)
	skillID := createTestSkill(t, db, &models.Skill{Title: "Daily walk", Description: "Walk", TargetStreak: 7})

	// No Start() first: the completion enrolls the user and counts
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	result, err := svc.Complete(user.ID, skillID, now)
	if err != nil {
		t.Fatalf("Complete() without Start error = %v", err)
	}
	if result.PointsAwarded != 10 || result.Streak != 1 {
		t.Errorf("Complete() = %+v, want 10 points and streak 1", result)
	}

	us, err := svc.GetUserSkill(user.ID, skillID)
	if err != nil {
		t.Fatalf("GetUserSkill() error = %v", err)
	}
	if us.StartDate != "2026-03-10" {
		t.Errorf("StartDate = %q, want 2026-03-10", us.StartDate)
	}
	if us.TargetStreak != 7 {
		t.Errorf("TargetStreak = %d, want 7", us.TargetStreak)
	}
}

func TestCompleteAwardsPointsAndStreak(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1002)
	skillID := createTestSkill(t, db, &models.Skill{Title: "Daily walk", Description: "Walk", TargetStreak: 7})

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if _, err := svc.Start(user.ID, skillID, now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := svc.Complete(user.ID, skillID, now)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if result.PointsAwarded != 10 {
		t.Errorf("PointsAwarded = %d, want 10", result.PointsAwarded)
	}
	if result.Streak != 1 {
		t.Errorf("Streak = %d, want 1", result.Streak)
	}
	if result.SkillCompleted {
		t.Error("SkillCompleted = true on first of seven completions")
	}
	if got := userPoints(t, db, user.ID); got != 10 {
		t.Errorf("user points = %d, want 10", got)
	}

	us, err := svc.GetUserSkill(user.ID, skillID)
	if err != nil {
		t.Fatalf("GetUserSkill() error = %v", err)
	}
	if len(us.CompletedDates) != 1 || us.CompletedDates[0] != "2026-03-10" {
		t.Errorf("CompletedDates = %v, want [2026-03-10]", us.CompletedDates)
	}
}

func TestCompleteCooldown(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1003)
	skillID := createTestSkill(t, db, &models.Skill{Title: "Daily walk", Description: "Walk", TargetStreak: 7, CooldownHours: 24})

	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if _, err := svc.Start(user.ID, skillID, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.Complete(user.ID, skillID, start); err != nil {
		t.Fatalf("first Complete() error = %v", err)
	}

	// One hour later the skill still has ~23 hours of cooldown left
	_, err := svc.Complete(user.ID, skillID, start.Add(time.Hour))
	var cooldown *CooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("Complete() error = %v, want CooldownError", err)
	}
	if cooldown.HoursLeft != 23 {
		t.Errorf("HoursLeft = %d, want 23", cooldown.HoursLeft)
	}

	// After the cooldown the completion goes through
	if _, err := svc.Complete(user.ID, skillID, start.Add(25*time.Hour)); err != nil {
		t.Errorf("Complete() after cooldown error = %v", err)
	}
}

func TestCompleteReachesTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1004)
	skillID := createTestSkill(t, db, &models.Skill{Title: "Stretching", Description: "Stretch", TargetStreak: 3, CooldownHours: 20})

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	if _, err := svc.Start(user.ID, skillID, now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for day := 0; day < 2; day++ {
		result, err := svc.Complete(user.ID, skillID, now.AddDate(0, 0, day))
		if err != nil {
			t.Fatalf("Complete() day %d error = %v", day+1, err)
		}
		if result.SkillCompleted {
			t.Fatalf("SkillCompleted = true after %d of 3 completions", day+1)
		}
	}

	// The third completion hits the target and finishes the skill
	result, err := svc.Complete(user.ID, skillID, now.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("Complete() day 3 error = %v", err)
	}
	if !result.SkillCompleted {
		t.Error("SkillCompleted = false after reaching the target")
	}

	_, err = svc.Complete(user.ID, skillID, now.AddDate(0, 0, 3))
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("Complete() on a finished skill error = %v, want ErrAlreadyCompleted", err)
	}
}

func TestCompleteSingleSkillFinishesImmediately(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1005)
	skillID := createTestSkill(t, db, &models.Skill{
		Title: "Deep work", Description: "One block",
		RepetitionType: models.RepetitionSingle, TargetStreak: 1,
	})

	now := time.Now()
	if _, err := svc.Start(user.ID, skillID, now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	result, err := svc.Complete(user.ID, skillID, now)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if !result.SkillCompleted {
		t.Error("a single-shot skill should finish on its first completion")
	}
}

func TestCompleteFocusMultiplier(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1006)
	skillID := createTestSkill(t, db, &models.Skill{Title: "Daily walk", Description: "Walk", TargetStreak: 7})

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	today := "2026-03-10"
	if _, err := svc.Start(user.ID, skillID, now); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.SetDailyFocus(user.ID, []int64{skillID}, today); err != nil {
		t.Fatalf("SetDailyFocus() error = %v", err)
	}

	result, err := svc.Complete(user.ID, skillID, now)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if result.PointsAwarded != 20 {
		t.Errorf("PointsAwarded = %d, want 20 (10 × 2.0 focus bonus)", result.PointsAwarded)
	}
	if !result.FocusApplied {
		t.Error("FocusApplied = false for a focused skill")
	}
	if !result.DailyFocusDone {
		t.Error("DailyFocusDone = false after completing the whole focus set")
	}
	if got := userPoints(t, db, user.ID); got != 20 {
		t.Errorf("user points = %d, want 20", got)
	}

	// Finishing the whole focus set advances the user's activity streak
	fresh, err := NewUserService(db).GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fresh.CurrentStreak != 1 {
		t.Errorf("user streak = %d, want 1", fresh.CurrentStreak)
	}
}

func TestSetDailyFocusLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1007)

	now := time.Now()
	var ids []int64
	for i := 0; i < 6; i++ {
		id := createTestSkill(t, db, &models.Skill{Title: "Habit", Description: "H", TargetStreak: 7})
		if _, err := svc.Start(user.ID, id, now); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		ids = append(ids, id)
	}

	_, err := svc.SetDailyFocus(user.ID, ids, "2026-03-10")
	var limit *FocusLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("SetDailyFocus() with 6 skills error = %v, want FocusLimitError", err)
	}
	if limit.Limit != 5 {
		t.Errorf("Limit = %d, want 5", limit.Limit)
	}

	focus, err := svc.SetDailyFocus(user.ID, ids[:5], "2026-03-10")
	if err != nil {
		t.Fatalf("SetDailyFocus() with 5 skills error = %v", err)
	}
	if len(focus.SkillIDs) != 5 {
		t.Errorf("focus set size = %d, want 5", len(focus.SkillIDs))
	}
}

func TestSetDailyFocusBookkeeping(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1008)

	now := time.Now()
	first := createTestSkill(t, db, &models.Skill{Title: "Walk", Description: "W", TargetStreak: 7})
	second := createTestSkill(t, db, &models.Skill{Title: "Read", Description: "R", TargetStreak: 7})
	for _, id := range []int64{first, second} {
		if _, err := svc.Start(user.ID, id, now); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	}

	today := "2026-03-10"
	if _, err := svc.SetDailyFocus(user.ID, []int64{first}, today); err != nil {
		t.Fatalf("SetDailyFocus() error = %v", err)
	}

	us, _ := svc.GetUserSkill(user.ID, first)
	if !us.InFocusToday {
		t.Error("InFocusToday = false for a focused skill")
	}
	if len(us.FocusDates) != 1 || us.FocusDates[0] != today {
		t.Errorf("FocusDates = %v, want [%s]", us.FocusDates, today)
	}

	// Re-saving the same set must not duplicate the focus date
	if _, err := svc.SetDailyFocus(user.ID, []int64{first}, today); err != nil {
		t.Fatalf("SetDailyFocus() repeat error = %v", err)
	}
	us, _ = svc.GetUserSkill(user.ID, first)
	if len(us.FocusDates) != 1 {
		t.Errorf("FocusDates after re-save = %v, want one entry", us.FocusDates)
	}

	// Swapping the set clears the flag on the dropped skill
	if _, err := svc.SetDailyFocus(user.ID, []int64{second}, today); err != nil {
		t.Fatalf("SetDailyFocus() swap error = %v", err)
	}
	us, _ = svc.GetUserSkill(user.ID, first)
	if us.InFocusToday {
		t.Error("InFocusToday still set after the skill left the focus set")
	}
}

func TestSetDailyFocusUnknownSkill(t *testing.T) {
	db := newTestDB(t)
	svc := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 1009)

	_, err := svc.SetDailyFocus(user.ID, []int64{12345}, "2026-03-10")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDailyFocus() with unknown skill error = %v, want ErrNotFound", err)
	}
}

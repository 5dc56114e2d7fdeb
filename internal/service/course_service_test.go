package service

import (
	"testing"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

func createTestCourse(t *testing.T, db *database.DB, totalDays int) int64 {
	t.Helper()

	id, err := repository.NewCourseRepository(db).Create(&models.Course{
		Title:           "Test Course",
		DifficultyLevel: 1,
		TotalDays:       totalDays,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}
	return id
}

func createTestLesson(t *testing.T, db *database.DB, courseID int64, day int, quiz *models.LessonQuiz) int64 {
	t.Helper()

	id, err := repository.NewLessonRepository(db).Create(&models.Lesson{
		CourseID:        courseID,
		DayNumber:       day,
		Title:           "Lesson",
		ContentType:     "text",
		TextContent:     "Read this.",
		Quiz:            quiz,
		UnlockCondition: "previous_completed",
	})
	if err != nil {
		t.Fatalf("Failed to create test lesson: %v", err)
	}
	return id
}

func createLinkedSkill(t *testing.T, db *database.DB, courseID int64, day int) int64 {
	t.Helper()

	return createTestSkill(t, db, &models.Skill{
		Title:          "Linked skill",
		Description:    "Practice",
		SkillType:      models.SkillTypeCourse,
		RepetitionType: models.RepetitionSingle,
		TargetStreak:   1,
		CourseID:       &courseID,
		LessonDay:      &day,
	})
}

func TestUnlockAdvancesWhenDayHasNoSkills(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseService(db)
	user := createTestUser(t, db, 2000)

	courseID := createTestCourse(t, db, 3)
	createTestLesson(t, db, courseID, 1, nil)
	createTestLesson(t, db, courseID, 2, nil)
	createLinkedSkill(t, db, courseID, 2)

	if _, err := courses.Start(user.ID, courseID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	now := time.Now()

	// Day 1 has no linked skills: it advances even though its lesson was
	// never opened
	result, err := courses.UnlockNextLesson(user.ID, courseID, now)
	if err != nil {
		t.Fatalf("UnlockNextLesson() error = %v", err)
	}
	if !result.Advanced || result.CurrentDay != 2 {
		t.Errorf("UnlockNextLesson() = %+v, want advance to day 2", result)
	}

	// Day 2 has an unfinished linked skill, so nothing moves again
	result, err = courses.UnlockNextLesson(user.ID, courseID, now)
	if err != nil {
		t.Fatalf("UnlockNextLesson() repeat error = %v", err)
	}
	if result.Advanced {
		t.Errorf("UnlockNextLesson() repeat = %+v, want no advance", result)
	}
}

func TestUnlockGatesOnLinkedSkills(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseService(db)
	skills := NewSkillService(db, 5, 2.0)
	user := createTestUser(t, db, 2001)

	courseID := createTestCourse(t, db, 3)
	createTestLesson(t, db, courseID, 1, nil)
	firstSkill := createLinkedSkill(t, db, courseID, 1)
	secondSkill := createLinkedSkill(t, db, courseID, 1)

	if _, err := courses.Start(user.ID, courseID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	now := time.Now()

	result, err := courses.UnlockNextLesson(user.ID, courseID, now)
	if err != nil {
		t.Fatalf("UnlockNextLesson() error = %v", err)
	}
	if result.Advanced {
		t.Error("Advanced = true with both linked skills incomplete")
	}

	for i, skillID := range []int64{firstSkill, secondSkill} {
		if _, err := skills.Start(user.ID, skillID, now); err != nil {
			t.Fatalf("Start() skill error = %v", err)
		}
		if _, err := skills.Complete(user.ID, skillID, now); err != nil {
			t.Fatalf("Complete() skill error = %v", err)
		}

		result, err = courses.UnlockNextLesson(user.ID, courseID, now)
		if err != nil {
			t.Fatalf("UnlockNextLesson() error = %v", err)
		}
		wantAdvance := i == 1
		if result.Advanced != wantAdvance {
			t.Errorf("after %d of 2 skills: Advanced = %v, want %v", i+1, result.Advanced, wantAdvance)
		}
	}
}

func TestUnlockFinalDayCompletesCourse(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseService(db)
	user := createTestUser(t, db, 2002)

	courseID := createTestCourse(t, db, 1)
	createTestLesson(t, db, courseID, 1, nil)

	if _, err := courses.Start(user.ID, courseID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	now := time.Now()
	result, err := courses.UnlockNextLesson(user.ID, courseID, now)
	if err != nil {
		t.Fatalf("UnlockNextLesson() error = %v", err)
	}
	if !result.CourseCompleted {
		t.Error("CourseCompleted = false on a finished final day with no linked skills")
	}

	progress, err := courses.GetProgress(user.ID, courseID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if progress.Status != models.CourseStatusCompleted {
		t.Errorf("progress status = %q, want %q", progress.Status, models.CourseStatusCompleted)
	}
	if progress.CompletedAt == nil {
		t.Error("CompletedAt not set on course completion")
	}

	// A completed course is no longer evaluated
	result, err = courses.UnlockNextLesson(user.ID, courseID, now)
	if err != nil {
		t.Fatalf("UnlockNextLesson() on completed course error = %v", err)
	}
	if result.CourseCompleted || result.Advanced {
		t.Errorf("UnlockNextLesson() on completed course = %+v, want no change", result)
	}
}

func TestStartCourseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	courses := NewCourseService(db)
	user := createTestUser(t, db, 2003)
	courseID := createTestCourse(t, db, 3)

	first, err := courses.Start(user.ID, courseID)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	second, err := courses.Start(user.ID, courseID)
	if err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("second Start() created a new progress row: %d != %d", first.ID, second.ID)
	}
	if first.CurrentLessonDay != 1 {
		t.Errorf("CurrentLessonDay = %d, want 1", first.CurrentLessonDay)
	}
}

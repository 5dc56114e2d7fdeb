package service

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// CourseService handles course enrollment and day-by-day unlock gating
type CourseService struct {
	courseRepo *repository.CourseRepository
	skillRepo  *repository.SkillRepository
}

// NewCourseService creates a new course service
func NewCourseService(db *database.DB) *CourseService {
	return &CourseService{
		courseRepo: repository.NewCourseRepository(db),
		skillRepo:  repository.NewSkillRepository(db),
	}
}

// UnlockResult describes what changed after an unlock evaluation
type UnlockResult struct {
	Advanced        bool
	CourseCompleted bool
	CurrentDay      int
}

// ListActive returns the course catalog
func (s *CourseService) ListActive() ([]models.Course, error) {
	return s.courseRepo.ListActive()
}

// Get returns a course by id
func (s *CourseService) Get(courseID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return course, err
}

// GetProgress returns the user's progress in a course, or nil when the
// user never started it
func (s *CourseService) GetProgress(userID, courseID int64) (*models.UserCourseProgress, error) {
	progress, err := s.courseRepo.GetProgress(userID, courseID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return progress, err
}

// ListProgress returns all of the user's course enrollments
func (s *CourseService) ListProgress(userID int64) ([]models.UserCourseProgress, error) {
	return s.courseRepo.ListProgressByUser(userID)
}

// Start enrolls the user in a course on day 1. Starting a course the
// user is already enrolled in returns the existing progress.
func (s *CourseService) Start(userID, courseID int64) (*models.UserCourseProgress, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, ErrNotFound
	}

	existing, err := s.courseRepo.GetProgress(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	return s.courseRepo.CreateProgress(userID, courseID)
}

// UnlockNextLesson advances the user's unlocked day when every skill
// linked to the current day is completed. A day with no linked skills
// advances unconditionally; passing the gate on the final day completes
// the course. Nothing is written when the gate does not open.
func (s *CourseService) UnlockNextLesson(userID, courseID int64, now time.Time) (*UnlockResult, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	progress, err := s.courseRepo.GetProgress(userID, courseID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	result := &UnlockResult{CurrentDay: progress.CurrentLessonDay}
	if progress.Status != models.CourseStatusActive {
		return result, nil
	}

	day := progress.CurrentLessonDay

	skillsDone, err := s.daySkillsDone(userID, courseID, day)
	if err != nil {
		return nil, err
	}
	if !skillsDone {
		return result, nil
	}

	if day >= course.TotalDays {
		if err := s.courseRepo.UpdateProgressStatus(progress.ID, models.CourseStatusCompleted, &now); err != nil {
			return nil, err
		}
		result.CourseCompleted = true
		return result, nil
	}

	if err := s.courseRepo.UpdateProgressDay(progress.ID, day+1, now); err != nil {
		return nil, err
	}
	result.Advanced = true
	result.CurrentDay = day + 1
	return result, nil
}

// daySkillsDone reports whether the user completed every skill linked to
// the day. Zero linked skills pass vacuously.
func (s *CourseService) daySkillsDone(userID, courseID int64, day int) (bool, error) {
	skills, err := s.skillRepo.ListActiveByCourseDay(courseID, day)
	if err != nil {
		return false, err
	}

	for _, skill := range skills {
		us, err := s.skillRepo.GetUserSkill(userID, skill.ID)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if us.Status != models.SkillStatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

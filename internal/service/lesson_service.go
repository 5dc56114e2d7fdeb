package service

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// Score a lesson quiz needs to reach before the lesson counts as passed
const lessonPassThreshold = 70

// LessonService handles lesson delivery and the embedded lesson quizzes
type LessonService struct {
	lessonRepo *repository.LessonRepository
	courseRepo *repository.CourseRepository
	skillRepo  *repository.SkillRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(db *database.DB) *LessonService {
	return &LessonService{
		lessonRepo: repository.NewLessonRepository(db),
		courseRepo: repository.NewCourseRepository(db),
		skillRepo:  repository.NewSkillRepository(db),
	}
}

// QuizAnswerResult describes the outcome of answering one lesson quiz question
type QuizAnswerResult struct {
	Correct     bool
	Explanation string
	Answered    int
	Total       int
	Finished    bool
	Score       int
	Passed      bool
}

// Get returns a lesson by id
func (s *LessonService) Get(lessonID int64) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return lesson, err
}

// GetForDay returns the lesson for a course day, enforcing the unlock
// gate: only days up to the user's current unlocked day are readable.
func (s *LessonService) GetForDay(userID, courseID int64, day int) (*models.Lesson, error) {
	progress, err := s.courseRepo.GetProgress(userID, courseID)
	if err == sql.ErrNoRows {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, err
	}
	if day > progress.CurrentLessonDay {
		return nil, ErrLocked
	}

	lesson, err := s.lessonRepo.GetByCourseDay(courseID, day)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return lesson, err
}

// GetProgress returns the user's progress on a lesson, or nil when the
// lesson was never opened
func (s *LessonService) GetProgress(userID, lessonID int64) (*models.UserLessonProgress, error) {
	lp, err := s.lessonRepo.GetProgress(userID, lessonID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lp, err
}

// MarkStudied records that the user read the lesson material. A lesson
// without an embedded quiz completes right here.
func (s *LessonService) MarkStudied(userID, lessonID int64, now time.Time) (*models.UserLessonProgress, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	status := models.LessonStatusStudied
	var completedAt *time.Time
	if lesson.Quiz == nil || len(lesson.Quiz.Questions) == 0 {
		status = models.LessonStatusCompleted
		completedAt = &now
	}

	lp, err := s.lessonRepo.GetProgress(userID, lessonID)
	if err == sql.ErrNoRows {
		return s.lessonRepo.CreateProgress(userID, lessonID, status, now)
	}
	if err != nil {
		return nil, err
	}

	// Never demote a lesson that already passed its quiz
	if lp.Status == models.LessonStatusQuizPassed || lp.Status == models.LessonStatusCompleted {
		return lp, nil
	}

	if err := s.lessonRepo.UpdateProgressStatus(lp.ID, status, completedAt, now); err != nil {
		return nil, err
	}
	return s.lessonRepo.GetProgress(userID, lessonID)
}

// SubmitQuizAnswer scores one question of a lesson's embedded quiz.
// Answers are keyed by question index: answering the same index again
// overwrites the previous answer and re-scores it, so the aggregate
// counts each question at most once. The score is recomputed on every
// submission as the share of currently-correct recorded answers, and
// the lesson is promoted the moment the score clears the pass bar.
func (s *LessonService) SubmitQuizAnswer(userID, lessonID int64, questionIndex, answer int, now time.Time) (*QuizAnswerResult, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if lesson.Quiz == nil || len(lesson.Quiz.Questions) == 0 {
		return nil, ErrValidation
	}
	if questionIndex < 0 || questionIndex >= len(lesson.Quiz.Questions) {
		return nil, ErrValidation
	}
	question := lesson.Quiz.Questions[questionIndex]
	if answer < 0 || answer >= len(question.Options) {
		return nil, ErrValidation
	}

	quiz, err := s.lessonRepo.GetQuizResult(userID, lessonID)
	if err == sql.ErrNoRows {
		quiz, err = s.lessonRepo.CreateQuizResult(userID, lessonID)
	}
	if err != nil {
		return nil, err
	}

	correct := answer == question.Correct
	_, answeredBefore := quiz.Answers[questionIndex]
	quiz.Answers[questionIndex] = models.LessonAnswer{
		Answer:    answer,
		Correct:   correct,
		Timestamp: now.Format(time.RFC3339),
	}

	total := len(lesson.Quiz.Questions)
	correctCount := 0
	for _, a := range quiz.Answers {
		if a.Correct {
			correctCount++
		}
	}

	result := &QuizAnswerResult{
		Correct:     correct,
		Explanation: question.Explanation,
		Answered:    len(quiz.Answers),
		Total:       total,
		Finished:    len(quiz.Answers) >= total,
		Score:       correctCount * 100 / total,
	}
	result.Passed = result.Score >= lessonPassThreshold

	// An attempt is one completed pass over the sheet, not one answer
	if result.Finished && !answeredBefore {
		quiz.Attempts++
	}
	quiz.LastScore = result.Score
	if result.Passed && !quiz.Passed {
		quiz.Passed = true
		quiz.CompletedAt = &now
		if err := s.promoteToQuizPassed(userID, lessonID, now); err != nil {
			return nil, err
		}
	}

	if err := s.lessonRepo.UpdateQuizResult(quiz); err != nil {
		return nil, err
	}
	return result, nil
}

// promoteToQuizPassed moves a studied lesson to quiz_passed exactly once
func (s *LessonService) promoteToQuizPassed(userID, lessonID int64, now time.Time) error {
	lp, err := s.lessonRepo.GetProgress(userID, lessonID)
	if err == sql.ErrNoRows {
		_, err = s.lessonRepo.CreateProgress(userID, lessonID, models.LessonStatusQuizPassed, now)
		return err
	}
	if err != nil {
		return err
	}
	if lp.Status == models.LessonStatusQuizPassed || lp.Status == models.LessonStatusCompleted {
		return nil
	}
	return s.lessonRepo.UpdateProgressStatus(lp.ID, models.LessonStatusQuizPassed, nil, now)
}

// CheckLessonCompletion promotes a quiz-passed lesson to completed once
// every skill linked to its day is completed too
func (s *LessonService) CheckLessonCompletion(userID, lessonID int64, now time.Time) (bool, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	lp, err := s.lessonRepo.GetProgress(userID, lessonID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if lp.Status == models.LessonStatusCompleted {
		return true, nil
	}
	if lp.Status != models.LessonStatusQuizPassed {
		return false, nil
	}

	skills, err := s.skillRepo.ListActiveByCourseDay(lesson.CourseID, lesson.DayNumber)
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

	if err := s.lessonRepo.UpdateProgressStatus(lp.ID, models.LessonStatusCompleted, &now, now); err != nil {
		return false, err
	}
	return true, nil
}

// GetQuizResult returns the user's recorded answers for a lesson quiz,
// or nil when the quiz was never attempted
func (s *LessonService) GetQuizResult(userID, lessonID int64) (*models.UserLessonQuiz, error) {
	quiz, err := s.lessonRepo.GetQuizResult(userID, lessonID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return quiz, err
}

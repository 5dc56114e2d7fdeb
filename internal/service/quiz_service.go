package service

import (
	"database/sql"
	"math/rand"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// Base points for a trivia answer before difficulty and streak scaling
const triviaBasePoints = 10

// QuizService handles the trivia quiz: question selection, the persisted
// per-user session and the streak-multiplied scoring.
type QuizService struct {
	db            *database.DB
	quizRepo      *repository.QuizRepository
	maxMultiplier float64
}

// NewQuizService creates a new quiz service
func NewQuizService(db *database.DB, maxMultiplier float64) *QuizService {
	return &QuizService{
		db:            db,
		quizRepo:      repository.NewQuizRepository(db),
		maxMultiplier: maxMultiplier,
	}
}

// TriviaResult describes the outcome of one trivia answer
type TriviaResult struct {
	Correct       bool
	PointsAwarded int
	Streak        int
	Multiplier    float64
	CorrectIndex  int
	CorrectOption string
	Explanation   string
	Mode          string
	Category      string
}

// bucket maps a mode and category onto the per-user progress key
func bucket(mode, category string) string {
	if mode == models.QuizModeCategory && category != "" {
		return "category_" + category
	}
	return mode
}

// Categories returns the categories of the active question pool
func (s *QuizService) Categories() ([]string, error) {
	return s.quizRepo.ListCategories()
}

// Ask picks a random question (optionally within a category), records it
// as the user's pending question and returns it. Asking again before
// answering replaces the pending question.
func (s *QuizService) Ask(userID int64, mode, category string) (*models.QuizQuestion, error) {
	pool, err := s.quizRepo.ListActiveQuestions(category)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNotFound
	}

	question := pool[rand.Intn(len(pool))]
	err = s.quizRepo.SetSession(&models.QuizSession{
		UserID:     userID,
		QuestionID: question.ID,
		QuizMode:   mode,
		Category:   category,
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Current returns the user's pending question, or ErrNoQuestion
func (s *QuizService) Current(userID int64) (*models.QuizQuestion, *models.QuizSession, error) {
	session, err := s.quizRepo.GetSession(userID)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNoQuestion
	}
	if err != nil {
		return nil, nil, err
	}

	question, err := s.quizRepo.GetQuestion(session.QuestionID)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNoQuestion
	}
	if err != nil {
		return nil, nil, err
	}
	return question, session, nil
}

// Answer scores the user's pending question. The multiplier comes from
// the streak before this answer: min(1 + 0.1×streak, cap). A correct
// answer earns int(10 × difficulty × multiplier) points, truncated; a
// wrong one resets the streak and still counts toward the totals. The
// progress update and the ledger credit commit together.
func (s *QuizService) Answer(userID int64, answerIndex int, now time.Time) (*TriviaResult, error) {
	session, err := s.quizRepo.GetSession(userID)
	if err == sql.ErrNoRows {
		return nil, ErrNoQuestion
	}
	if err != nil {
		return nil, err
	}

	question, err := s.quizRepo.GetQuestion(session.QuestionID)
	if err == sql.ErrNoRows {
		return nil, ErrNoQuestion
	}
	if err != nil {
		return nil, err
	}

	if answerIndex < 0 || answerIndex >= len(question.Options) {
		return nil, ErrValidation
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	quizRepo := repository.NewQuizRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	key := bucket(session.QuizMode, session.Category)
	progress, err := quizRepo.GetProgress(userID, key)
	if err == sql.ErrNoRows {
		progress, err = quizRepo.CreateProgress(userID, key)
	}
	if err != nil {
		return nil, err
	}

	multiplier := 1.0 + 0.1*float64(progress.CurrentStreak)
	if multiplier > s.maxMultiplier {
		multiplier = s.maxMultiplier
	}

	correct := answerIndex == question.CorrectIndex
	result := &TriviaResult{
		Correct:      correct,
		Multiplier:   multiplier,
		CorrectIndex: question.CorrectIndex,
		Explanation:  question.Explanation,
		Mode:         session.QuizMode,
		Category:     session.Category,
	}
	if question.CorrectIndex >= 0 && question.CorrectIndex < len(question.Options) {
		result.CorrectOption = question.Options[question.CorrectIndex]
	}

	progress.TotalAnswered++
	stat := progress.CategoryStats[question.Category]
	stat.Total++

	if correct {
		result.PointsAwarded = int(float64(triviaBasePoints) * float64(question.Difficulty) * multiplier)
		progress.Score += result.PointsAwarded
		progress.CurrentStreak++
		if progress.CurrentStreak > progress.LongestStreak {
			progress.LongestStreak = progress.CurrentStreak
		}
		progress.TotalCorrect++
		stat.Correct++
	} else {
		progress.CurrentStreak = 0
	}

	progress.CategoryStats[question.Category] = stat
	progress.LastPlayed = &now

	if err := quizRepo.UpdateProgress(progress); err != nil {
		return nil, err
	}
	if result.PointsAwarded > 0 {
		if err := userRepo.AddPoints(userID, result.PointsAwarded); err != nil {
			return nil, err
		}
	}
	if err := quizRepo.ClearSession(userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result.Streak = progress.CurrentStreak
	return result, nil
}

// GetProgress returns the user's score row for a quiz bucket, or nil
// when the user never played it
func (s *QuizService) GetProgress(userID int64, mode, category string) (*models.UserQuizProgress, error) {
	progress, err := s.quizRepo.GetProgress(userID, bucket(mode, category))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return progress, err
}

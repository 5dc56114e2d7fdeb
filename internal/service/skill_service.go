package service

import (
	"database/sql"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// SkillService handles habit tracking: starting skills, daily focus
// selection and the point accounting for completions.
type SkillService struct {
	db              *database.DB
	skillRepo       *repository.SkillRepository
	focusRepo       *repository.FocusRepository
	userRepo        *repository.UserRepository
	focusLimit      int
	focusMultiplier float64
}

// NewSkillService creates a new skill service
func NewSkillService(db *database.DB, focusLimit int, focusMultiplier float64) *SkillService {
	return &SkillService{
		db:              db,
		skillRepo:       repository.NewSkillRepository(db),
		focusRepo:       repository.NewFocusRepository(db),
		userRepo:        repository.NewUserRepository(db),
		focusLimit:      focusLimit,
		focusMultiplier: focusMultiplier,
	}
}

// CompletionResult describes the outcome of a skill completion
type CompletionResult struct {
	PointsAwarded  int
	Streak         int
	TargetStreak   int
	SkillCompleted bool
	FocusApplied   bool
	DailyFocusDone bool
	CourseID       *int64
	LessonDay      *int
}

// dateOf formats a moment as the calendar date used for focus and streak
// bookkeeping
func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// Catalog returns the active skill catalog
func (s *SkillService) Catalog() ([]models.Skill, error) {
	return s.skillRepo.ListActive()
}

// GetSkill returns a skill definition
func (s *SkillService) GetSkill(skillID int64) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(skillID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return skill, err
}

// ListUserSkills returns all of the user's skills with their definitions
func (s *SkillService) ListUserSkills(userID int64) ([]models.UserSkillWithSkill, error) {
	return s.skillRepo.ListUserSkills(userID)
}

// GetUserSkill returns the user's progress on one skill
func (s *SkillService) GetUserSkill(userID, skillID int64) (*models.UserSkill, error) {
	us, err := s.skillRepo.GetUserSkill(userID, skillID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return us, err
}

// Start begins tracking a skill for the user. Starting a skill the user
// already tracks returns the existing row.
func (s *SkillService) Start(userID, skillID int64, now time.Time) (*models.UserSkill, error) {
	skill, err := s.skillRepo.GetByID(skillID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !skill.IsActive {
		return nil, ErrNotFound
	}

	existing, err := s.skillRepo.GetUserSkill(userID, skillID)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	return enrollUserSkill(s.skillRepo, userID, skill, now)
}

// enrollUserSkill creates the tracking row for a skill the user picked up
func enrollUserSkill(repo *repository.SkillRepository, userID int64, skill *models.Skill, now time.Time) (*models.UserSkill, error) {
	startDate := dateOf(now)
	endDate := ""
	if skill.DurationDays != nil {
		endDate = dateOf(now.AddDate(0, 0, *skill.DurationDays))
	}
	return repo.CreateUserSkill(userID, skill.ID, skill.TargetStreak, startDate, endDate)
}

// Complete records one completion of a skill and credits points. The
// whole update runs in a single transaction: the streak advance, the
// focus bookkeeping and the point credit land together or not at all.
func (s *SkillService) Complete(userID, skillID int64, now time.Time) (*CompletionResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	skillRepo := repository.NewSkillRepository(tx)
	focusRepo := repository.NewFocusRepository(tx)
	userRepo := repository.NewUserRepository(tx)

	skill, err := skillRepo.GetByID(skillID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !skill.IsActive {
		return nil, ErrNotFound
	}

	us, err := skillRepo.GetUserSkill(userID, skillID)
	if err == sql.ErrNoRows {
		// Completing a skill the user never explicitly started begins
		// tracking it on the spot
		us, err = enrollUserSkill(skillRepo, userID, skill, now)
	}
	if err != nil {
		return nil, err
	}

	if us.Status == models.SkillStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	if us.LastCompletedAt != nil {
		elapsed := now.Sub(*us.LastCompletedAt)
		if elapsed < skill.Cooldown() {
			remaining := skill.Cooldown() - elapsed
			return nil, &CooldownError{HoursLeft: int(remaining.Hours())}
		}
	}

	today := dateOf(now)
	points := skill.PointsPerCompletion
	result := &CompletionResult{
		TargetStreak: us.TargetStreak,
		CourseID:     skill.CourseID,
		LessonDay:    skill.LessonDay,
	}

	// Focus bonus: a skill in today's focus set earns multiplied points,
	// truncated toward zero.
	focus, err := focusRepo.Get(userID, today)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err == nil && focus.Contains(skillID) {
		points = int(float64(points) * s.focusMultiplier)
		result.FocusApplied = true

		if !containsInt64(focus.CompletedSkillIDs, skillID) {
			focus.CompletedSkillIDs = append(focus.CompletedSkillIDs, skillID)
		}
		if !focus.IsDailyCompleted && len(focus.CompletedSkillIDs) >= len(focus.SkillIDs) {
			focus.IsDailyCompleted = true
			result.DailyFocusDone = true
			if err := bumpUserStreak(userRepo, userID); err != nil {
				return nil, err
			}
		}
		if err := focusRepo.Update(focus); err != nil {
			return nil, err
		}
	}

	us.CurrentStreak++
	if !models.ContainsString(us.CompletedDates, today) {
		us.CompletedDates = append(us.CompletedDates, today)
	}
	us.LastCompletedAt = &now

	// A single-shot skill finishes on its first completion; streak skills
	// finish when the target is reached.
	if skill.RepetitionType == models.RepetitionSingle ||
		(us.TargetStreak > 0 && us.CurrentStreak >= us.TargetStreak) {
		us.Status = models.SkillStatusCompleted
		result.SkillCompleted = true
	}

	if err := skillRepo.UpdateUserSkill(us); err != nil {
		return nil, err
	}
	if err := userRepo.AddPoints(userID, points); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result.PointsAwarded = points
	result.Streak = us.CurrentStreak
	return result, nil
}

// GetDailyFocus returns the user's focus set for the date, or nil when
// none was chosen yet
func (s *SkillService) GetDailyFocus(userID int64, date string) (*models.DailyFocus, error) {
	focus, err := s.focusRepo.Get(userID, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return focus, err
}

// SetDailyFocus replaces the user's focus set for the date. The set holds
// at most the configured limit. Every listed skill must be one the user
// tracks; in_focus_today is recomputed across all of the user's skills,
// and newly focused skills get today appended to their focus history.
func (s *SkillService) SetDailyFocus(userID int64, skillIDs []int64, date string) (*models.DailyFocus, error) {
	if len(skillIDs) > s.focusLimit {
		return nil, &FocusLimitError{Limit: s.focusLimit}
	}

	for _, skillID := range skillIDs {
		_, err := s.skillRepo.GetUserSkill(userID, skillID)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	focus, err := s.focusRepo.Get(userID, date)
	if err == sql.ErrNoRows {
		focus, err = s.focusRepo.Create(userID, date)
	}
	if err != nil {
		return nil, err
	}

	focus.SkillIDs = skillIDs
	kept := make([]int64, 0, len(focus.CompletedSkillIDs))
	for _, id := range focus.CompletedSkillIDs {
		if containsInt64(skillIDs, id) {
			kept = append(kept, id)
		}
	}
	focus.CompletedSkillIDs = kept
	focus.IsDailyCompleted = len(skillIDs) > 0 && len(kept) >= len(skillIDs)
	if err := s.focusRepo.Update(focus); err != nil {
		return nil, err
	}

	tracked, err := s.skillRepo.ListUserSkills(userID)
	if err != nil {
		return nil, err
	}
	for i := range tracked {
		us := tracked[i].UserSkill
		inFocus := containsInt64(skillIDs, us.SkillID)

		changed := us.InFocusToday != inFocus
		if inFocus && !models.ContainsString(us.FocusDates, date) {
			us.FocusDates = append(us.FocusDates, date)
			changed = true
		}
		if !changed {
			continue
		}

		us.InFocusToday = inFocus
		if err := s.skillRepo.UpdateUserSkill(&us); err != nil {
			return nil, err
		}
	}

	return focus, nil
}

// AddFocusSkill puts one more of the user's skills into the day's focus set
func (s *SkillService) AddFocusSkill(userID, skillID int64, date string) (*models.DailyFocus, error) {
	us, err := s.skillRepo.GetUserSkill(userID, skillID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if us.Status == models.SkillStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	current, err := s.GetDailyFocus(userID, date)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if current != nil {
		if current.Contains(skillID) {
			return current, nil
		}
		ids = current.SkillIDs
	}
	return s.SetDailyFocus(userID, append(ids, skillID), date)
}

// RemoveFocusSkill takes a skill back out of the day's focus set
func (s *SkillService) RemoveFocusSkill(userID, skillID int64, date string) (*models.DailyFocus, error) {
	current, err := s.GetDailyFocus(userID, date)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}
	return s.SetDailyFocus(userID, removeInt64(current.SkillIDs, skillID), date)
}

// FocusLimit returns the configured daily focus limit
func (s *SkillService) FocusLimit() int {
	return s.focusLimit
}

func bumpUserStreak(userRepo *repository.UserRepository, userID int64) error {
	user, err := userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	current := user.CurrentStreak + 1
	longest := user.LongestStreak
	if current > longest {
		longest = current
	}
	return userRepo.UpdateStreak(userID, current, longest)
}

func containsInt64(list []int64, value int64) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func removeInt64(list []int64, value int64) []int64 {
	out := make([]int64, 0, len(list))
	for _, v := range list {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

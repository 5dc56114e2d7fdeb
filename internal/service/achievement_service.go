package service

import (
	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// AchievementService evaluates badge criteria against a user's stats
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	userRepo        *repository.UserRepository
	courseRepo      *repository.CourseRepository
	skillRepo       *repository.SkillRepository
}

// NewAchievementService creates a new achievement service
func NewAchievementService(db *database.DB) *AchievementService {
	return &AchievementService{
		achievementRepo: repository.NewAchievementRepository(db),
		userRepo:        repository.NewUserRepository(db),
		courseRepo:      repository.NewCourseRepository(db),
		skillRepo:       repository.NewSkillRepository(db),
	}
}

// List returns all badge definitions
func (s *AchievementService) List() ([]models.Achievement, error) {
	return s.achievementRepo.List()
}

// ListUnlocked returns the ids of badges the user holds
func (s *AchievementService) ListUnlocked(userID int64) (map[int64]bool, error) {
	return s.achievementRepo.ListUnlocked(userID)
}

// CheckUnlocks evaluates every badge the user does not hold yet and
// unlocks those whose criteria are now met. Newly unlocked badges are
// returned; their point rewards are credited to the ledger.
func (s *AchievementService) CheckUnlocks(userID int64) ([]models.Achievement, error) {
	achievements, err := s.achievementRepo.List()
	if err != nil {
		return nil, err
	}
	held, err := s.achievementRepo.ListUnlocked(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	for _, a := range achievements {
		if held[a.ID] {
			continue
		}

		met, err := s.criteriaMet(user, &a)
		if err != nil {
			return nil, err
		}
		if !met {
			continue
		}

		if err := s.achievementRepo.Unlock(userID, a.ID); err != nil {
			return nil, err
		}
		if a.PointsReward > 0 {
			if err := s.userRepo.AddPoints(userID, a.PointsReward); err != nil {
				return nil, err
			}
		}
		unlocked = append(unlocked, a)
	}

	return unlocked, nil
}

func (s *AchievementService) criteriaMet(user *models.User, a *models.Achievement) (bool, error) {
	switch a.CriteriaType {
	case models.CriteriaTotalPoints:
		return user.Points >= a.CriteriaValue, nil
	case models.CriteriaStreakDays:
		return user.LongestStreak >= a.CriteriaValue, nil
	case models.CriteriaCoursesCompleted:
		list, err := s.courseRepo.ListProgressByUser(user.ID)
		if err != nil {
			return false, err
		}
		count := 0
		for _, p := range list {
			if p.Status == models.CourseStatusCompleted {
				count++
			}
		}
		return count >= a.CriteriaValue, nil
	case models.CriteriaSkillsCompleted:
		list, err := s.skillRepo.ListUserSkills(user.ID)
		if err != nil {
			return false, err
		}
		count := 0
		for _, us := range list {
			if us.UserSkill.Status == models.SkillStatusCompleted {
				count++
			}
		}
		return count >= a.CriteriaValue, nil
	}
	return false, nil
}

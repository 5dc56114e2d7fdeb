package main

import (
	"log"

	"habitquest/internal/config"
	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// Seeds the database with a demo course, skills, trivia questions and
// achievements. Safe to run repeatedly: it skips when content exists.
func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	courseRepo := repository.NewCourseRepository(db)
	count, err := courseRepo.Count()
	if err != nil {
		log.Fatalf("Failed to check existing content: %v", err)
	}
	if count > 0 {
		log.Printf("Database already has %d courses, nothing to seed", count)
		return
	}

	if err := seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding completed")
}

func seed(db *database.DB) error {
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	courseID, err := courseRepo.Create(&models.Course{
		Title:           "Morning Momentum",
		Description:     "Seven days to a morning routine that sticks: sleep, movement, planning and focus.",
		Icon:            "🌅",
		DifficultyLevel: 1,
		TotalDays:       7,
		IsActive:        true,
		SortOrder:       1,
	})
	if err != nil {
		return err
	}

	lessons := []models.Lesson{
		{
			DayNumber:   1,
			Title:       "Why mornings matter",
			ContentType: "text",
			TextContent: "Your first hour sets the tone for the day. Today we look at what a deliberate morning actually buys you: fewer decisions, more energy, and a head start before the noise begins.",
			Quiz: &models.LessonQuiz{Questions: []models.LessonQuizQuestion{
				{
					Text:    "What is the main benefit of a fixed morning routine?",
					Options: []string{"More willpower for later decisions", "Longer sleep", "Skipping breakfast"},
					Correct: 0,
				},
				{
					Text:        "When should you plan tomorrow's first task?",
					Options:     []string{"Right after waking", "The evening before", "At lunch"},
					Correct:     1,
					Explanation: "Deciding the night before removes the hardest morning decision.",
				},
			}},
		},
		{
			DayNumber:   2,
			Title:       "Wake up at the same time",
			ContentType: "text",
			TextContent: "Consistency beats duration. Pick a wake-up time you can hold seven days a week and anchor everything else to it.",
		},
		{
			DayNumber:   3,
			Title:       "Move before you scroll",
			ContentType: "text",
			TextContent: "Five minutes of movement before the first screen. It does not have to be a workout: stretching, a short walk, anything that gets blood flowing.",
			Quiz: &models.LessonQuiz{Questions: []models.LessonQuizQuestion{
				{
					Text:    "What should come first after waking?",
					Options: []string{"Checking messages", "Light movement", "Coffee in bed"},
					Correct: 1,
				},
			}},
		},
		{
			DayNumber:   4,
			Title:       "A glass of water",
			ContentType: "text",
			TextContent: "You wake up mildly dehydrated. Water before coffee is the cheapest energy upgrade there is.",
		},
		{
			DayNumber:   5,
			Title:       "The first deep-work block",
			ContentType: "text",
			TextContent: "Protect your first ninety minutes for the one task that matters most. Notifications off, door closed.",
		},
		{
			DayNumber:   6,
			Title:       "Evening shutdown",
			ContentType: "text",
			TextContent: "Good mornings are made the night before: a short shutdown ritual, screens away, tomorrow's plan written down.",
		},
		{
			DayNumber:   7,
			Title:       "Putting it together",
			ContentType: "text",
			TextContent: "Review the week, keep what worked, drop what did not. A routine survives only if it is yours.",
			Quiz: &models.LessonQuiz{Questions: []models.LessonQuizQuestion{
				{
					Text:    "What makes a routine last?",
					Options: []string{"Copying someone else's exactly", "Adapting it to your own life", "Making it as long as possible"},
					Correct: 1,
				},
				{
					Text:    "How often should you review your routine?",
					Options: []string{"Never", "Regularly", "Only when it fails"},
					Correct: 1,
				},
			}},
		},
	}
	for i := range lessons {
		lessons[i].CourseID = courseID
		lessons[i].UnlockCondition = "previous_completed"
		if _, err := lessonRepo.Create(&lessons[i]); err != nil {
			return err
		}
	}

	day2, day3, day5 := 2, 3, 5
	courseSkills := []models.Skill{
		{
			Title:               "Same wake-up time",
			Description:         "Get up at your chosen time, no snoozing.",
			SkillType:           models.SkillTypeCourse,
			RepetitionType:      models.RepetitionSequential,
			TargetStreak:        3,
			PointsPerCompletion: 10,
			CourseID:            &courseID,
			LessonDay:           &day2,
			CooldownHours:       20,
			IsActive:            true,
		},
		{
			Title:               "Morning movement",
			Description:         "Five minutes of movement before the first screen.",
			SkillType:           models.SkillTypeCourse,
			RepetitionType:      models.RepetitionSequential,
			TargetStreak:        3,
			PointsPerCompletion: 10,
			CourseID:            &courseID,
			LessonDay:           &day3,
			CooldownHours:       20,
			IsActive:            true,
		},
		{
			Title:               "Deep-work block",
			Description:         "Ninety distraction-free minutes on your most important task.",
			SkillType:           models.SkillTypeCourse,
			RepetitionType:      models.RepetitionSingle,
			TargetStreak:        1,
			PointsPerCompletion: 20,
			CourseID:            &courseID,
			LessonDay:           &day5,
			CooldownHours:       20,
			IsActive:            true,
		},
	}

	thirtyDays := 30
	independentSkills := []models.Skill{
		{
			Title:               "Read 20 minutes",
			Description:         "Twenty minutes of reading, any book counts.",
			SkillType:           models.SkillTypeIndependent,
			RepetitionType:      models.RepetitionHabit,
			TargetStreak:        21,
			DurationDays:        &thirtyDays,
			PointsPerCompletion: 10,
			CooldownHours:       24,
			IsActive:            true,
		},
		{
			Title:               "Daily walk",
			Description:         "A 30-minute walk outside.",
			SkillType:           models.SkillTypeIndependent,
			RepetitionType:      models.RepetitionHabit,
			TargetStreak:        14,
			PointsPerCompletion: 10,
			CooldownHours:       24,
			IsActive:            true,
		},
		{
			Title:               "No screens after 22:00",
			Description:         "Phone and laptop away an hour before bed.",
			SkillType:           models.SkillTypeIndependent,
			RepetitionType:      models.RepetitionHabit,
			TargetStreak:        7,
			PointsPerCompletion: 15,
			CooldownHours:       24,
			IsActive:            true,
		},
	}
	for i := range courseSkills {
		if _, err := skillRepo.Create(&courseSkills[i]); err != nil {
			return err
		}
	}
	for i := range independentSkills {
		if _, err := skillRepo.Create(&independentSkills[i]); err != nil {
			return err
		}
	}

	questions := []models.QuizQuestion{
		{
			QuestionText: "Roughly how long does it take on average to form a new habit?",
			QuestionType: "multiple_choice",
			Options:      []string{"7 days", "21 days", "About 66 days"},
			CorrectIndex: 2,
			Category:     "Habits",
			Difficulty:   2,
			Explanation:  "Research puts the average around 66 days, with wide variation.",
			IsActive:     true,
		},
		{
			QuestionText: "What is 'habit stacking'?",
			QuestionType: "multiple_choice",
			Options:      []string{"Doing many habits at once", "Attaching a new habit to an existing one", "Tracking habits in a spreadsheet"},
			CorrectIndex: 1,
			Category:     "Habits",
			Difficulty:   1,
			IsActive:     true,
		},
		{
			QuestionText: "Which hormone drives the sleep-wake cycle?",
			QuestionType: "multiple_choice",
			Options:      []string{"Melatonin", "Insulin", "Adrenaline"},
			CorrectIndex: 0,
			Category:     "Health",
			Difficulty:   1,
			IsActive:     true,
		},
		{
			QuestionText: "What does the 'two-minute rule' suggest?",
			QuestionType: "multiple_choice",
			Options:      []string{"Start a new habit with a version that takes two minutes", "Rest two minutes between tasks", "Never spend more than two minutes deciding"},
			CorrectIndex: 0,
			Category:     "Productivity",
			Difficulty:   2,
			IsActive:     true,
		},
		{
			QuestionText: "What is the main cost of task switching?",
			QuestionType: "multiple_choice",
			Options:      []string{"Nothing, the brain multitasks well", "Residual attention left on the previous task", "Only time lost on the switch itself"},
			CorrectIndex: 1,
			Category:     "Productivity",
			Difficulty:   3,
			Explanation:  "Attention residue keeps part of your focus on the task you left.",
			IsActive:     true,
		},
	}
	for i := range questions {
		if _, err := quizRepo.CreateQuestion(&questions[i]); err != nil {
			return err
		}
	}

	achievements := []models.Achievement{
		{Name: "First Steps", Description: "Earn your first 100 points", Icon: "🌱", CriteriaType: models.CriteriaTotalPoints, CriteriaValue: 100, PointsReward: 10},
		{Name: "Point Collector", Description: "Reach 1000 points", Icon: "💎", CriteriaType: models.CriteriaTotalPoints, CriteriaValue: 1000, PointsReward: 50},
		{Name: "One Week Strong", Description: "Hold a 7-day streak", Icon: "🔥", CriteriaType: models.CriteriaStreakDays, CriteriaValue: 7, PointsReward: 30},
		{Name: "Graduate", Description: "Complete your first course", Icon: "🎓", CriteriaType: models.CriteriaCoursesCompleted, CriteriaValue: 1, PointsReward: 50},
		{Name: "Skill Master", Description: "Complete 5 skills", Icon: "🏆", CriteriaType: models.CriteriaSkillsCompleted, CriteriaValue: 5, PointsReward: 40},
	}
	for i := range achievements {
		if _, err := achievementRepo.Create(&achievements[i]); err != nil {
			return err
		}
	}

	return nil
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"habitquest/internal/bot"
	"habitquest/internal/config"
	"habitquest/internal/database"
	"habitquest/internal/repository"
	"habitquest/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Open(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	userService := service.NewUserService(db)
	courseService := service.NewCourseService(db)
	lessonService := service.NewLessonService(db)
	skillService := service.NewSkillService(db, cfg.DailyFocusLimit, cfg.FocusMultiplier)
	quizService := service.NewQuizService(db, cfg.MaxStreakMultiplier)
	achievementService := service.NewAchievementService(db)
	stateRepo := repository.NewStateRepository(db)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Connect to Telegram
	b, err := bot.New(cfg, bot.Deps{
		Users:  userService,
		Course: courseService,
		Lesson: lessonService,
		Skill:  skillService,
		Quiz:   quizService,
		Badges: achievementService,
		States: stateRepo,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	// Broadcast and reminders send through the bot itself
	b.SetBroadcast(service.NewBroadcastService(db, b, emailService, cfg.OperatorEmail, cfg.BroadcastDelay))
	reminderService := service.NewReminderService(db, b, cfg.MorningReminder, cfg.EveningReminder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reminderService.Run(ctx)
	go b.Run(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Bot shutting down...")
	cancel()
}

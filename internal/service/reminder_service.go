package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"habitquest/internal/database"
	"habitquest/internal/models"
	"habitquest/internal/repository"
)

// ReminderService sends the daily nudges: a morning prompt to pick a
// focus set and an evening prompt to finish it. Sent reminders are
// recorded per user per day, so a restart never repeats one.
type ReminderService struct {
	userRepo     *repository.UserRepository
	focusRepo    *repository.FocusRepository
	reminderRepo *repository.ReminderRepository
	sender       MessageSender
	morningAt    string // "HH:MM", UTC
	eveningAt    string
}

// NewReminderService creates a new reminder service
func NewReminderService(db *database.DB, sender MessageSender, morningAt, eveningAt string) *ReminderService {
	return &ReminderService{
		userRepo:     repository.NewUserRepository(db),
		focusRepo:    repository.NewFocusRepository(db),
		reminderRepo: repository.NewReminderRepository(db),
		sender:       sender,
		morningAt:    morningAt,
		eveningAt:    eveningAt,
	}
}

// Run ticks once a minute until the context is cancelled
func (s *ReminderService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	log.Printf("Reminder loop started: morning=%s evening=%s", s.morningAt, s.eveningAt)

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder loop stopped")
			return
		case now := <-ticker.C:
			if err := s.Tick(now.UTC()); err != nil {
				log.Printf("Reminder tick failed: %v", err)
			}
		}
	}
}

// Tick sends whatever reminders are due at the given moment
func (s *ReminderService) Tick(now time.Time) error {
	clock := now.Format("15:04")
	date := dateOf(now)

	users, err := s.userRepo.ListAll()
	if err != nil {
		return err
	}

	for _, user := range users {
		if !user.Settings.Notifications {
			continue
		}

		if clock == s.morningAt {
			s.deliver("morning", user.TelegramID, date,
				fmt.Sprintf("Good morning, %s! Pick today's focus skills and earn double points on them.", user.DisplayName()))
		}

		eveningAt := user.Settings.DailyReminder
		if eveningAt == "" {
			eveningAt = s.eveningAt
		}
		if clock == eveningAt {
			s.deliver("evening", user.TelegramID, date, s.eveningText(&user, date))
		}
	}

	return nil
}

// eveningText reports today's focus progress when a focus set exists
func (s *ReminderService) eveningText(user *models.User, date string) string {
	focus, err := s.focusRepo.Get(user.ID, date)
	if err == nil && len(focus.SkillIDs) > 0 {
		return fmt.Sprintf("Evening check-in, %s: you completed %d of %d focus skills today. Keep the streak alive!",
			user.DisplayName(), len(focus.CompletedSkillIDs), len(focus.SkillIDs))
	}
	return fmt.Sprintf("Evening check-in, %s: any skills left to complete today? Keep the streak alive!",
		user.DisplayName())
}

// deliver sends one reminder unless it already went out today. Send
// failures are logged and dropped; an unreachable user never marks the
// reminder as sent.
func (s *ReminderService) deliver(kind string, telegramID int64, date, text string) {
	name := fmt.Sprintf("%s:%d", kind, telegramID)

	sent, err := s.reminderRepo.WasSent(name, date)
	if err != nil {
		log.Printf("Reminder %s: dedupe lookup failed: %v", name, err)
		return
	}
	if sent {
		return
	}

	if err := s.sender.SendText(telegramID, text); err != nil {
		log.Printf("Reminder %s: send failed: %v", name, err)
		return
	}

	if err := s.reminderRepo.MarkSent(name, date); err != nil {
		log.Printf("Reminder %s: mark failed: %v", name, err)
	}
}

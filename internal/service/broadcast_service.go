package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"habitquest/internal/database"
	"habitquest/internal/repository"
)

// MessageSender delivers bot messages to a chat. The Telegram client
// satisfies it; tests substitute a recorder.
type MessageSender interface {
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, fileID, caption string) error
}

// BroadcastService sends an admin message to every registered user
type BroadcastService struct {
	userRepo      *repository.UserRepository
	sender        MessageSender
	email         *EmailService
	operatorEmail string
	delay         time.Duration
}

// NewBroadcastService creates a new broadcast service
func NewBroadcastService(db *database.DB, sender MessageSender, email *EmailService, operatorEmail string, delay time.Duration) *BroadcastService {
	return &BroadcastService{
		userRepo:      repository.NewUserRepository(db),
		sender:        sender,
		email:         email,
		operatorEmail: operatorEmail,
		delay:         delay,
	}
}

// Report summarizes one broadcast run
type Report struct {
	RunID  string
	Sent   int
	Failed int
	Total  int
}

// Run delivers the message to every user. The {name} token in the text
// is replaced with each recipient's display name. Delivery failures are
// counted and skipped; one unreachable user never aborts the run. When
// photoFileID is set the text goes out as the photo caption.
func (s *BroadcastService) Run(ctx context.Context, text, photoFileID string) (*Report, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID: uuid.New().String(),
		Total: len(users),
	}
	log.Printf("Broadcast %s started: %d recipients", report.RunID, report.Total)

	for _, user := range users {
		if ctx.Err() != nil {
			break
		}

		personalized := strings.ReplaceAll(text, "{name}", user.DisplayName())

		var sendErr error
		if photoFileID != "" {
			sendErr = s.sender.SendPhoto(user.TelegramID, photoFileID, personalized)
		} else {
			sendErr = s.sender.SendText(user.TelegramID, personalized)
		}

		if sendErr != nil {
			report.Failed++
			log.Printf("Broadcast %s: send to %d failed: %v", report.RunID, user.TelegramID, sendErr)
		} else {
			report.Sent++
		}

		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}

	log.Printf("Broadcast %s finished: sent=%d failed=%d total=%d",
		report.RunID, report.Sent, report.Failed, report.Total)

	if s.email != nil && s.operatorEmail != "" {
		if err := s.email.SendBroadcastReport(ctx, s.operatorEmail, report); err != nil {
			log.Printf("Broadcast %s: operator report email failed: %v", report.RunID, err)
		}
	}

	return report, nil
}

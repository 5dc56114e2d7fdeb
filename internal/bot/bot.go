package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habitquest/internal/config"
	"habitquest/internal/repository"
	"habitquest/internal/service"
)

// Bot wires the Telegram transport to the services
type Bot struct {
	api       *tgbotapi.BotAPI
	cfg       *config.Config
	users     *service.UserService
	courses   *service.CourseService
	lessons   *service.LessonService
	skills    *service.SkillService
	quiz      *service.QuizService
	badges    *service.AchievementService
	broadcast *service.BroadcastService
	states    *repository.StateRepository
}

// Deps carries the services the bot depends on
type Deps struct {
	Users  *service.UserService
	Course *service.CourseService
	Lesson *service.LessonService
	Skill  *service.SkillService
	Quiz   *service.QuizService
	Badges *service.AchievementService
	States *repository.StateRepository
}

// New connects to the Telegram API and builds the bot
func New(cfg *config.Config, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	api.Debug = cfg.Debug

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:     api,
		cfg:     cfg,
		users:   deps.Users,
		courses: deps.Course,
		lessons: deps.Lesson,
		skills:  deps.Skill,
		quiz:    deps.Quiz,
		badges:  deps.Badges,
		states:  deps.States,
	}, nil
}

// SetBroadcast attaches the broadcast service. It needs the bot as its
// message sender, so it is built after the bot itself.
func (b *Bot) SetBroadcast(s *service.BroadcastService) {
	b.broadcast = s
}

// Run consumes updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from handler panic: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

// SendText delivers a plain text message. Part of service.MessageSender.
func (b *Bot) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// SendPhoto delivers a previously uploaded photo by file id with a
// caption. Part of service.MessageSender.
func (b *Bot) SendPhoto(chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	_, err := b.api.Send(photo)
	return err
}

// reply sends a message with an optional inline keyboard
func (b *Bot) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Send to %d failed: %v", chatID, err)
	}
}

// edit replaces the text and keyboard of the message a callback came from
func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if keyboard == nil {
		keyboard = &tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	}
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *keyboard)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Edit in %d failed: %v", chatID, err)
	}
}

// ack answers a callback query, optionally with a toast
func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("Callback ack failed: %v", err)
	}
}

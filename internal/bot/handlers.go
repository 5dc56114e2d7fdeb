package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habitquest/internal/models"
	"habitquest/internal/service"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "menu":
		b.showMainMenu(msg.Chat.ID, msg.From.FirstName)
	case "help":
		b.reply(msg.Chat.ID, helpText, nil)
	case "broadcast":
		b.handleBroadcastCommand(msg)
	case "skip":
		b.handleSkip(msg)
	case "cancel":
		b.handleCancel(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /menu.", nil)
	}
}

const helpText = `*HabitQuest* helps you build habits and learn, one day at a time.

/start — register and open the main menu
/menu — open the main menu
/cancel — abort the current operation

Pick up to 5 focus skills each morning: completing a focused skill earns double points.`

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	fullName := msg.From.FirstName
	if msg.From.LastName != "" {
		fullName += " " + msg.From.LastName
	}

	user, err := b.users.GetOrCreate(msg.From.ID, msg.From.UserName, fullName, msg.From.LanguageCode)
	if err != nil {
		log.Printf("GetOrCreate for %d failed: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Something went wrong, please try again.", nil)
		return
	}

	text := fmt.Sprintf("Welcome, %s! 👋\n\nHabitQuest turns self-improvement into a game: take daily courses, build skill streaks and test yourself in quizzes.\n\nWhere do we start?", user.DisplayName())
	b.reply(msg.Chat.ID, text, mainMenuKeyboard())
}

func (b *Bot) showMainMenu(chatID int64, name string) {
	text := "🏠 *Main menu*\n\nCourses, daily practice, quizzes — pick your next step."
	if name != "" {
		text = fmt.Sprintf("🏠 *Main menu*\n\nWhat's next, %s?", name)
	}
	b.reply(chatID, text, mainMenuKeyboard())
}

// handleMessage routes non-command messages by conversational state
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	state, err := b.states.Get(msg.From.ID)
	if err != nil {
		log.Printf("State lookup for %d failed: %v", msg.From.ID, err)
		return
	}

	switch state.State {
	case models.StateAwaitingBroadcastText:
		b.handleBroadcastText(msg)
	case models.StateAwaitingBroadcastPhoto:
		b.handleBroadcastPhoto(msg, state.Data)
	default:
		b.reply(msg.Chat.ID, "I'm not sure what to do with that. Try /menu.", nil)
	}
}

// --- broadcast flow (admin only) ---

func (b *Bot) handleBroadcastCommand(msg *tgbotapi.Message) {
	if !b.cfg.IsAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for administrators.", nil)
		return
	}

	if err := b.states.Set(msg.From.ID, models.StateAwaitingBroadcastText, ""); err != nil {
		log.Printf("State set failed: %v", err)
		return
	}
	b.reply(msg.Chat.ID, "Send the broadcast text. Use `{name}` where the recipient's name should go.\n\n/cancel aborts.", nil)
}

func (b *Bot) handleBroadcastText(msg *tgbotapi.Message) {
	if msg.Text == "" {
		b.reply(msg.Chat.ID, "I need plain text first. Send the broadcast text, or /cancel.", nil)
		return
	}

	if err := b.states.Set(msg.From.ID, models.StateAwaitingBroadcastPhoto, msg.Text); err != nil {
		log.Printf("State set failed: %v", err)
		return
	}
	b.reply(msg.Chat.ID, "Got it. Now send a photo to attach, or /skip to broadcast text only.", nil)
}

func (b *Bot) handleBroadcastPhoto(msg *tgbotapi.Message, pendingText string) {
	if len(msg.Photo) == 0 {
		b.reply(msg.Chat.ID, "That's not a photo. Send one, or /skip for a text-only broadcast.", nil)
		return
	}

	// Telegram sends several sizes; the last one is the largest
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	b.runBroadcast(msg, pendingText, fileID)
}

func (b *Bot) handleSkip(msg *tgbotapi.Message) {
	state, err := b.states.Get(msg.From.ID)
	if err != nil {
		log.Printf("State lookup for %d failed: %v", msg.From.ID, err)
		return
	}
	if state.State != models.StateAwaitingBroadcastPhoto {
		b.reply(msg.Chat.ID, "Nothing to skip right now.", nil)
		return
	}
	b.runBroadcast(msg, state.Data, "")
}

func (b *Bot) runBroadcast(msg *tgbotapi.Message, text, photoFileID string) {
	if err := b.states.Clear(msg.From.ID); err != nil {
		log.Printf("State clear failed: %v", err)
	}
	if b.broadcast == nil {
		b.reply(msg.Chat.ID, "Broadcasting is not configured.", nil)
		return
	}

	b.reply(msg.Chat.ID, "📣 Broadcasting…", nil)
	report, err := b.broadcast.Run(context.Background(), text, photoFileID)
	if err != nil {
		log.Printf("Broadcast failed: %v", err)
		b.reply(msg.Chat.ID, "The broadcast failed to start.", nil)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Done. Delivered %d of %d, %d failed.",
		report.Sent, report.Total, report.Failed), nil)
}

func (b *Bot) handleCancel(msg *tgbotapi.Message) {
	if err := b.states.Clear(msg.From.ID); err != nil {
		log.Printf("State clear failed: %v", err)
	}
	b.reply(msg.Chat.ID, "Cancelled.", nil)
}

// userNotice maps service errors onto user-facing text
func userNotice(err error) string {
	var cooldown *service.CooldownError
	var limit *service.FocusLimitError

	switch {
	case errors.As(err, &cooldown):
		return fmt.Sprintf("⏳ Not yet — this skill needs a rest. Come back in ~%d hours.", cooldown.HoursLeft)
	case errors.As(err, &limit):
		return fmt.Sprintf("You can pick at most %d focus skills per day.", limit.Limit)
	case errors.Is(err, service.ErrAlreadyCompleted):
		return "Already completed — nothing more to do here. 🏆"
	case errors.Is(err, service.ErrNotFound):
		return "Hmm, I can't find that anymore."
	case errors.Is(err, service.ErrLocked):
		return "That day isn't unlocked yet. Finish the current one first."
	case errors.Is(err, service.ErrNoQuestion):
		return "No question is waiting for you — start a new quiz."
	case errors.Is(err, service.ErrValidation):
		return "That answer doesn't fit the question."
	}
	return "Something went wrong, please try again."
}

package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habitquest/internal/models"
)

// payload is a parsed colon-delimited callback payload: "action:args..."
type payload struct {
	action string
	args   []string
}

func parsePayload(data string) payload {
	parts := strings.Split(data, ":")
	return payload{action: parts[0], args: parts[1:]}
}

func (p payload) arg(i int) string {
	if i < 0 || i >= len(p.args) {
		return ""
	}
	return p.args[i]
}

func (p payload) argInt64(i int) (int64, error) {
	return strconv.ParseInt(p.arg(i), 10, 64)
}

func (p payload) argInt(i int) (int, error) {
	return strconv.Atoi(p.arg(i))
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		b.ack(cq.ID, "")
		return
	}

	fullName := cq.From.FirstName
	if cq.From.LastName != "" {
		fullName += " " + cq.From.LastName
	}
	user, err := b.users.GetOrCreate(cq.From.ID, cq.From.UserName, fullName, cq.From.LanguageCode)
	if err != nil {
		log.Printf("GetOrCreate for %d failed: %v", cq.From.ID, err)
		b.ack(cq.ID, "Something went wrong")
		return
	}

	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	p := parsePayload(cq.Data)
	b.ack(cq.ID, "")

	switch p.action {
	case "menu":
		b.handleMenu(user, chatID, messageID, p)
	case "course":
		b.handleCourseCallback(user, chatID, messageID, p)
	case "lesson":
		b.handleLessonCallback(user, chatID, messageID, p)
	case "lquiz":
		b.handleLessonQuizCallback(user, chatID, messageID, p)
	case "skill":
		b.handleSkillCallback(user, chatID, messageID, p)
	case "focus":
		b.handleFocusCallback(user, chatID, messageID, p)
	case "quiz":
		b.handleQuizCallback(user, chatID, messageID, p)
	case "settings":
		b.handleSettingsCallback(user, chatID, messageID, p)
	default:
		log.Printf("Unknown callback payload: %q", cq.Data)
	}
}

func (b *Bot) handleMenu(user *models.User, chatID int64, messageID int, p payload) {
	switch p.arg(0) {
	case "main":
		b.edit(chatID, messageID, "🏠 *Main menu*\n\nWhat's next?", mainMenuKeyboard())
	case "courses":
		b.showCourseList(chatID, messageID)
	case "practice":
		b.edit(chatID, messageID, "💪 *Practice*\n\nTrack your skills and pick today's focus.", practiceMenuKeyboard())
	case "quiz":
		b.showQuizMenu(user, chatID, messageID)
	case "progress":
		b.showProgress(user, chatID, messageID)
	case "settings":
		b.showSettings(user, chatID, messageID)
	}
}

func (b *Bot) showProgress(user *models.User, chatID int64, messageID int) {
	fresh, err := b.users.GetByID(user.ID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 *Your progress*\n\n")
	fmt.Fprintf(&sb, "⭐ Points: %d\n", fresh.Points)
	fmt.Fprintf(&sb, "🔥 Streak: %d days (best %d)\n", fresh.CurrentStreak, fresh.LongestStreak)

	if progress, err := b.courses.ListProgress(user.ID); err == nil && len(progress) > 0 {
		active, done := 0, 0
		for _, cp := range progress {
			switch cp.Status {
			case models.CourseStatusActive:
				active++
			case models.CourseStatusCompleted:
				done++
			}
		}
		fmt.Fprintf(&sb, "\n📚 Courses: %d active, %d completed\n", active, done)
	}

	if skills, err := b.skills.ListUserSkills(user.ID); err == nil && len(skills) > 0 {
		done := 0
		for _, item := range skills {
			if item.UserSkill.Status == models.SkillStatusCompleted {
				done++
			}
		}
		fmt.Fprintf(&sb, "💪 Skills: %d tracked, %d completed\n", len(skills), done)
	}

	if qp, err := b.quiz.GetProgress(user.ID, models.QuizModeInfinite, ""); err == nil && qp != nil {
		fmt.Fprintf(&sb, "🧠 Quiz: %d points, best streak %d, %d/%d correct\n",
			qp.Score, qp.LongestStreak, qp.TotalCorrect, qp.TotalAnswered)
	}

	if held, err := b.badges.ListUnlocked(user.ID); err == nil && len(held) > 0 {
		fmt.Fprintf(&sb, "🏅 Achievements: %d unlocked\n", len(held))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(backRow("menu:main"))
	b.edit(chatID, messageID, sb.String(), &kb)
}

func (b *Bot) showSettings(user *models.User, chatID int64, messageID int) {
	text := "⚙️ *Settings*\n\nReminders follow your notification setting."
	b.edit(chatID, messageID, text, settingsKeyboard(user.Settings))
}

func (b *Bot) handleSettingsCallback(user *models.User, chatID int64, messageID int, p payload) {
	switch p.arg(0) {
	case "notify":
		settings := user.Settings
		settings.Notifications = !settings.Notifications
		if err := b.users.UpdateSettings(user.ID, settings); err != nil {
			log.Printf("UpdateSettings for %d failed: %v", user.ID, err)
			return
		}
		user.Settings = settings
		b.showSettings(user, chatID, messageID)
	}
}

package bot

import (
	"fmt"
	"strings"
	"time"

	"habitquest/internal/models"
)

func (b *Bot) showQuizMenu(user *models.User, chatID int64, messageID int) {
	categories, err := b.quiz.Categories()
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🧠 *Quiz*\n\nAnswer streaks multiply your points — up to ×3. One wrong answer resets the streak.")

	if qp, err := b.quiz.GetProgress(user.ID, models.QuizModeInfinite, ""); err == nil && qp != nil {
		fmt.Fprintf(&sb, "\n\n🔥 Current streak: %d · Best: %d", qp.CurrentStreak, qp.LongestStreak)
	}

	b.edit(chatID, messageID, sb.String(), quizMenuKeyboard(categories))
}

func (b *Bot) handleQuizCallback(user *models.User, chatID int64, messageID int, p payload) {
	switch p.arg(0) {
	case "infinite":
		b.askTrivia(user, chatID, messageID, models.QuizModeInfinite, "")
	case "cat":
		b.askTrivia(user, chatID, messageID, models.QuizModeCategory, p.arg(1))
	case "ans":
		answer, err := p.argInt(1)
		if err != nil {
			return
		}
		b.answerTrivia(user, chatID, messageID, answer)
	}
}

func (b *Bot) askTrivia(user *models.User, chatID int64, messageID int, mode, category string) {
	question, err := b.quiz.Ask(user.ID, mode, category)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	b.showTriviaQuestion(chatID, messageID, question)
}

func (b *Bot) showTriviaQuestion(chatID int64, messageID int, question *models.QuizQuestion) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "❓ *%s*\n\n%s", question.Category, question.QuestionText)
	fmt.Fprintf(&sb, "\n\nDifficulty: %s", strings.Repeat("⭐", question.Difficulty))
	b.edit(chatID, messageID, sb.String(), quizAnswerKeyboard(question.Options))
}

func (b *Bot) answerTrivia(user *models.User, chatID int64, messageID int, answer int) {
	result, err := b.quiz.Answer(user.ID, answer, time.Now())
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	if result.Correct {
		fmt.Fprintf(&sb, "✅ Correct! +%d points", result.PointsAwarded)
		if result.Multiplier > 1.0 {
			fmt.Fprintf(&sb, " (×%.1f streak bonus)", result.Multiplier)
		}
		fmt.Fprintf(&sb, "\n🔥 Streak: %d", result.Streak)
	} else {
		fmt.Fprintf(&sb, "❌ Wrong — the answer was *%s*.\n🔥 Streak reset.", result.CorrectOption)
	}
	if result.Explanation != "" {
		fmt.Fprintf(&sb, "\n\n💡 %s", result.Explanation)
	}

	b.edit(chatID, messageID, sb.String(), quizNextKeyboard(result.Mode, result.Category))
}

package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"habitquest/internal/models"
)

func (b *Bot) showCourseList(chatID int64, messageID int) {
	courses, err := b.courses.ListActive()
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	if len(courses) == 0 {
		b.edit(chatID, messageID, "No courses are available yet. Check back soon!", courseListKeyboard(nil))
		return
	}
	b.edit(chatID, messageID, "📚 *Courses*\n\nPick a course to see the details.", courseListKeyboard(courses))
}

func (b *Bot) handleCourseCallback(user *models.User, chatID int64, messageID int, p payload) {
	courseID, err := p.argInt64(1)
	if err != nil {
		log.Printf("Bad course payload: %v", err)
		return
	}

	switch p.arg(0) {
	case "view":
		b.showCourse(user, chatID, messageID, courseID)
	case "start":
		if _, err := b.courses.Start(user.ID, courseID); err != nil {
			b.edit(chatID, messageID, userNotice(err), nil)
			return
		}
		b.showCourse(user, chatID, messageID, courseID)
	}
}

func (b *Bot) showCourse(user *models.User, chatID int64, messageID int, courseID int64) {
	course, err := b.courses.Get(courseID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	progress, err := b.courses.GetProgress(user.ID, courseID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	title := course.Title
	if course.Icon != "" {
		title = course.Icon + " " + title
	}
	fmt.Fprintf(&sb, "*%s*\n\n", title)
	if course.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", course.Description)
	}
	fmt.Fprintf(&sb, "Length: %d days · Difficulty: %s\n", course.TotalDays, difficultyStars(course.DifficultyLevel))

	switch {
	case progress == nil:
		sb.WriteString("\nYou haven't started this course yet.")
	case progress.Status == models.CourseStatusCompleted:
		sb.WriteString("\n🏆 You completed this course!")
	default:
		fmt.Fprintf(&sb, "\nYou're on day %d of %d.", progress.CurrentLessonDay, course.TotalDays)
	}

	b.edit(chatID, messageID, sb.String(), courseKeyboard(course, progress))
}

func difficultyStars(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return strings.Repeat("⭐", level)
}

func (b *Bot) handleLessonCallback(user *models.User, chatID int64, messageID int, p payload) {
	switch p.arg(0) {
	case "view":
		courseID, err := p.argInt64(1)
		if err != nil {
			return
		}
		day, err := p.argInt(2)
		if err != nil {
			return
		}
		b.showLesson(user, chatID, messageID, courseID, day)
	case "studied":
		lessonID, err := p.argInt64(1)
		if err != nil {
			return
		}
		b.markStudied(user, chatID, messageID, lessonID)
	}
}

func (b *Bot) showLesson(user *models.User, chatID int64, messageID int, courseID int64, day int) {
	lesson, err := b.lessons.GetForDay(user.ID, courseID, day)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	progress, err := b.lessons.GetProgress(user.ID, lesson.ID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 *Day %d: %s*\n\n", lesson.DayNumber, lesson.Title)
	if lesson.TextContent != "" {
		fmt.Fprintf(&sb, "%s\n\n", lesson.TextContent)
	}
	if lesson.ContentURL != "" {
		fmt.Fprintf(&sb, "🎬 Material: %s\n", lesson.ContentURL)
	}
	if lesson.PDFURL != "" {
		fmt.Fprintf(&sb, "📄 Workbook: %s\n", lesson.PDFURL)
	}
	if lesson.Quiz != nil && len(lesson.Quiz.Questions) > 0 {
		fmt.Fprintf(&sb, "\nThis lesson ends with a %d-question quiz (70%% to pass).", len(lesson.Quiz.Questions))
	}

	b.edit(chatID, messageID, sb.String(), lessonKeyboard(lesson, progress))
}

func (b *Bot) markStudied(user *models.User, chatID int64, messageID int, lessonID int64) {
	progress, err := b.lessons.MarkStudied(user.ID, lessonID, time.Now())
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	lesson, err := b.lessons.Get(lessonID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	if progress.Status == models.LessonStatusCompleted {
		b.afterLessonDone(user, lesson)
		b.edit(chatID, messageID,
			fmt.Sprintf("✅ Day %d done! Keep the momentum going.", lesson.DayNumber),
			lessonKeyboard(lesson, progress))
		return
	}

	b.edit(chatID, messageID,
		fmt.Sprintf("Marked as studied. Ready for the day %d quiz?", lesson.DayNumber),
		lessonKeyboard(lesson, progress))
}

// afterLessonDone re-evaluates lesson completion and the course unlock
// gate after anything that could open it
func (b *Bot) afterLessonDone(user *models.User, lesson *models.Lesson) {
	if _, err := b.lessons.CheckLessonCompletion(user.ID, lesson.ID, time.Now()); err != nil {
		log.Printf("Lesson completion check failed: %v", err)
	}
	result, err := b.courses.UnlockNextLesson(user.ID, lesson.CourseID, time.Now())
	if err != nil {
		log.Printf("Unlock evaluation failed: %v", err)
		return
	}
	if result.CourseCompleted {
		b.SendText(user.TelegramID, "🎉 Course complete! Check the course list for your next challenge.")
		if unlocked, err := b.badges.CheckUnlocks(user.ID); err == nil {
			b.announceBadges(user.TelegramID, unlocked)
		}
	} else if result.Advanced {
		b.SendText(user.TelegramID, fmt.Sprintf("🔓 Day %d is unlocked!", result.CurrentDay))
	}
}

func (b *Bot) announceBadges(telegramID int64, unlocked []models.Achievement) {
	for _, badge := range unlocked {
		icon := badge.Icon
		if icon == "" {
			icon = "🏅"
		}
		b.SendText(telegramID, fmt.Sprintf("%s Achievement unlocked: *%s*! +%d points", icon, badge.Name, badge.PointsReward))
	}
}

// --- lesson quiz flow ---

func (b *Bot) handleLessonQuizCallback(user *models.User, chatID int64, messageID int, p payload) {
	lessonID, err := p.argInt64(1)
	if err != nil {
		return
	}

	switch p.arg(0) {
	case "start":
		b.askLessonQuestion(user, chatID, messageID, lessonID, 0)
	case "ans":
		questionIndex, err := p.argInt(2)
		if err != nil {
			return
		}
		answer, err := p.argInt(3)
		if err != nil {
			return
		}
		b.answerLessonQuestion(user, chatID, messageID, lessonID, questionIndex, answer)
	}
}

func (b *Bot) askLessonQuestion(user *models.User, chatID int64, messageID int, lessonID int64, questionIndex int) {
	lesson, err := b.lessons.Get(lessonID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	if lesson.Quiz == nil || questionIndex >= len(lesson.Quiz.Questions) {
		return
	}

	question := lesson.Quiz.Questions[questionIndex]
	text := fmt.Sprintf("📝 Question %d of %d\n\n%s",
		questionIndex+1, len(lesson.Quiz.Questions), question.Text)
	b.edit(chatID, messageID, text, lessonQuizKeyboard(lessonID, questionIndex, question.Options))
}

func (b *Bot) answerLessonQuestion(user *models.User, chatID int64, messageID int, lessonID int64, questionIndex, answer int) {
	result, err := b.lessons.SubmitQuizAnswer(user.ID, lessonID, questionIndex, answer, time.Now())
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	verdict := "❌ Not quite."
	if result.Correct {
		verdict = "✅ Correct!"
	}
	if result.Explanation != "" {
		verdict += " " + result.Explanation
	}

	if !result.Finished {
		b.SendText(chatID, verdict)
		b.askLessonQuestion(user, chatID, messageID, lessonID, questionIndex+1)
		return
	}

	lesson, err := b.lessons.Get(lessonID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var text string
	if result.Passed {
		text = fmt.Sprintf("%s\n\n🎉 Quiz passed with %d%%!", verdict, result.Score)
		b.afterLessonDone(user, lesson)
	} else {
		text = fmt.Sprintf("%s\n\nYou scored %d%% — you need 70%%. Review the lesson and try again.", verdict, result.Score)
	}

	progress, err := b.lessons.GetProgress(user.ID, lessonID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	b.edit(chatID, messageID, text, lessonKeyboard(lesson, progress))
}

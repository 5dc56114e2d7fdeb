package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habitquest/internal/models"
)

func mainMenuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Courses", "menu:courses"),
			tgbotapi.NewInlineKeyboardButtonData("💪 Practice", "menu:practice"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧠 Quiz", "menu:quiz"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Progress", "menu:progress"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", "menu:settings"),
		),
	)
	return &kb
}

func backRow(target string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", target),
	)
}

func courseListKeyboard(courses []models.Course) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, course := range courses {
		label := course.Title
		if course.Icon != "" {
			label = course.Icon + " " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("course:view:%d", course.ID)),
		))
	}
	rows = append(rows, backRow("menu:main"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func courseKeyboard(course *models.Course, progress *models.UserCourseProgress) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if progress == nil {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Start course", fmt.Sprintf("course:start:%d", course.ID)),
		))
	} else if progress.Status == models.CourseStatusActive {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("📖 Day %d lesson", progress.CurrentLessonDay),
				fmt.Sprintf("lesson:view:%d:%d", course.ID, progress.CurrentLessonDay)),
		))
	}
	rows = append(rows, backRow("menu:courses"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func lessonKeyboard(lesson *models.Lesson, progress *models.UserLessonProgress) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	studied := progress != nil && progress.Status != models.LessonStatusNotStarted
	if !studied {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Mark as studied", fmt.Sprintf("lesson:studied:%d", lesson.ID)),
		))
	} else if lesson.Quiz != nil && len(lesson.Quiz.Questions) > 0 &&
		progress.Status == models.LessonStatusStudied {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Take the quiz", fmt.Sprintf("lquiz:start:%d", lesson.ID)),
		))
	}

	rows = append(rows, backRow(fmt.Sprintf("course:view:%d", lesson.CourseID)))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func lessonQuizKeyboard(lessonID int64, questionIndex int, options []string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option,
				fmt.Sprintf("lquiz:ans:%d:%d:%d", lessonID, questionIndex, i)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func practiceMenuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 My skills", "skill:list"),
			tgbotapi.NewInlineKeyboardButtonData("➕ Find skills", "skill:catalog"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Today's focus", "focus:menu"),
		),
		backRow("menu:main"),
	)
	return &kb
}

func skillListKeyboard(list []models.UserSkillWithSkill, back string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range list {
		label := item.Skill.Title
		if item.UserSkill.Status == models.SkillStatusCompleted {
			label = "🏆 " + label
		} else if item.UserSkill.InFocusToday {
			label = "🎯 " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("skill:view:%d", item.Skill.ID)),
		))
	}
	rows = append(rows, backRow(back))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func skillCatalogKeyboard(catalog []models.Skill) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, skill := range catalog {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(skill.Title, fmt.Sprintf("skill:start:%d", skill.ID)),
		))
	}
	rows = append(rows, backRow("menu:practice"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func skillKeyboard(skillID int64, us *models.UserSkill) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if us.Status != models.SkillStatusCompleted {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Done today", fmt.Sprintf("skill:complete:%d", skillID)),
		))
	}
	rows = append(rows, backRow("skill:list"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// focusPickerKeyboard toggles skills in and out of today's focus set
func focusPickerKeyboard(list []models.UserSkillWithSkill, focus *models.DailyFocus) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range list {
		if item.UserSkill.Status == models.SkillStatusCompleted {
			continue
		}
		label := "▫️ " + item.Skill.Title
		if focus != nil && focus.Contains(item.Skill.ID) {
			label = "🎯 " + item.Skill.Title
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("focus:toggle:%d", item.Skill.ID)),
		))
	}
	rows = append(rows, backRow("menu:practice"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func quizMenuKeyboard(categories []string) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("♾ Infinite quiz", "quiz:infinite"),
		),
	}
	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📂 "+category, "quiz:cat:"+category),
		))
	}
	rows = append(rows, backRow("menu:main"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func quizAnswerKeyboard(options []string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, fmt.Sprintf("quiz:ans:%d", i)),
		))
	}
	rows = append(rows, backRow("menu:quiz"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func quizNextKeyboard(mode, category string) *tgbotapi.InlineKeyboardMarkup {
	next := "quiz:infinite"
	if mode == models.QuizModeCategory && category != "" {
		next = "quiz:cat:" + category
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Next question", next),
		),
		backRow("menu:quiz"),
	)
	return &kb
}

func settingsKeyboard(settings models.UserSettings) *tgbotapi.InlineKeyboardMarkup {
	label := "🔔 Notifications: on"
	if !settings.Notifications {
		label = "🔕 Notifications: off"
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "settings:notify"),
		),
		backRow("menu:main"),
	)
	return &kb
}

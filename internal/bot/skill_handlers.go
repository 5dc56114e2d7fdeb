package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"habitquest/internal/models"
	"habitquest/internal/service"
)

func (b *Bot) handleSkillCallback(user *models.User, chatID int64, messageID int, p payload) {
	switch p.arg(0) {
	case "list":
		b.showSkillList(user, chatID, messageID)
	case "catalog":
		b.showSkillCatalog(user, chatID, messageID)
	case "view":
		skillID, err := p.argInt64(1)
		if err != nil {
			return
		}
		b.showSkill(user, chatID, messageID, skillID)
	case "start":
		skillID, err := p.argInt64(1)
		if err != nil {
			return
		}
		if _, err := b.skills.Start(user.ID, skillID, time.Now()); err != nil {
			b.edit(chatID, messageID, userNotice(err), nil)
			return
		}
		b.showSkill(user, chatID, messageID, skillID)
	case "complete":
		skillID, err := p.argInt64(1)
		if err != nil {
			return
		}
		b.completeSkill(user, chatID, messageID, skillID)
	}
}

func (b *Bot) showSkillList(user *models.User, chatID int64, messageID int) {
	list, err := b.skills.ListUserSkills(user.ID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	if len(list) == 0 {
		b.edit(chatID, messageID,
			"You're not tracking any skills yet. Find one to start!",
			practiceMenuKeyboard())
		return
	}
	b.edit(chatID, messageID, "🗂 *My skills*", skillListKeyboard(list, "menu:practice"))
}

func (b *Bot) showSkillCatalog(user *models.User, chatID int64, messageID int) {
	catalog, err := b.skills.Catalog()
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	tracked, err := b.skills.ListUserSkills(user.ID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	trackedIDs := make(map[int64]bool, len(tracked))
	for _, item := range tracked {
		trackedIDs[item.Skill.ID] = true
	}

	var available []models.Skill
	for _, skill := range catalog {
		// Course-linked skills join through their lesson, not the catalog
		if skill.CourseID != nil || trackedIDs[skill.ID] {
			continue
		}
		available = append(available, skill)
	}

	if len(available) == 0 {
		b.edit(chatID, messageID, "You're already tracking every available habit. 💪", practiceMenuKeyboard())
		return
	}
	b.edit(chatID, messageID, "➕ *Find skills*\n\nPick a habit to start tracking.", skillCatalogKeyboard(available))
}

func (b *Bot) showSkill(user *models.User, chatID int64, messageID int, skillID int64) {
	skill, err := b.skills.GetSkill(skillID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	us, err := b.skills.GetUserSkill(user.ID, skillID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n\n%s\n\n", skill.Title, skill.Description)
	if us.TargetStreak > 0 {
		fmt.Fprintf(&sb, "🔥 Streak: %d of %d\n", us.CurrentStreak, us.TargetStreak)
	} else {
		fmt.Fprintf(&sb, "🔥 Streak: %d\n", us.CurrentStreak)
	}
	fmt.Fprintf(&sb, "⭐ %d points per completion", skill.PointsPerCompletion)
	if us.InFocusToday {
		sb.WriteString(" (×2 today — it's in your focus!)")
	}
	if us.Status == models.SkillStatusCompleted {
		sb.WriteString("\n\n🏆 Completed!")
	}

	b.edit(chatID, messageID, sb.String(), skillKeyboard(skillID, us))
}

func (b *Bot) completeSkill(user *models.User, chatID int64, messageID int, skillID int64) {
	result, err := b.skills.Complete(user.ID, skillID, time.Now())
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ +%d points", result.PointsAwarded)
	if result.FocusApplied {
		sb.WriteString(" (focus bonus!)")
	}
	if result.TargetStreak > 0 {
		fmt.Fprintf(&sb, "\n🔥 Streak: %d of %d", result.Streak, result.TargetStreak)
	} else {
		fmt.Fprintf(&sb, "\n🔥 Streak: %d", result.Streak)
	}
	if result.SkillCompleted {
		sb.WriteString("\n\n🏆 Skill completed — well done!")
	}
	if result.DailyFocusDone {
		sb.WriteString("\n🎯 That's your whole focus set for today!")
	}

	// Course-linked completions can open the next day
	if result.CourseID != nil {
		unlock, err := b.courses.UnlockNextLesson(user.ID, *result.CourseID, time.Now())
		if err != nil && err != service.ErrNotFound {
			log.Printf("Unlock evaluation failed: %v", err)
		} else if err == nil {
			if unlock.CourseCompleted {
				sb.WriteString("\n\n🎉 Course complete!")
			} else if unlock.Advanced {
				fmt.Fprintf(&sb, "\n\n🔓 Day %d is unlocked!", unlock.CurrentDay)
			}
		}
	}

	if unlocked, err := b.badges.CheckUnlocks(user.ID); err == nil {
		b.announceBadges(user.TelegramID, unlocked)
	}

	us, err := b.skills.GetUserSkill(user.ID, skillID)
	if err != nil {
		b.edit(chatID, messageID, sb.String(), nil)
		return
	}
	b.edit(chatID, messageID, sb.String(), skillKeyboard(skillID, us))
}

// --- daily focus picker ---

func (b *Bot) handleFocusCallback(user *models.User, chatID int64, messageID int, p payload) {
	switch p.arg(0) {
	case "menu":
		b.showFocusPicker(user, chatID, messageID, "")
	case "toggle":
		skillID, err := p.argInt64(1)
		if err != nil {
			return
		}
		b.toggleFocus(user, chatID, messageID, skillID)
	}
}

func (b *Bot) showFocusPicker(user *models.User, chatID int64, messageID int, notice string) {
	today := time.Now().Format("2006-01-02")

	list, err := b.skills.ListUserSkills(user.ID)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}
	focus, err := b.skills.GetDailyFocus(user.ID, today)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	chosen := 0
	if focus != nil {
		chosen = len(focus.SkillIDs)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎯 *Today's focus* (%d/%d)\n\n", chosen, b.skills.FocusLimit())
	sb.WriteString("Focused skills earn *double points* today. Tap to toggle.")
	if notice != "" {
		sb.WriteString("\n\n" + notice)
	}

	b.edit(chatID, messageID, sb.String(), focusPickerKeyboard(list, focus))
}

func (b *Bot) toggleFocus(user *models.User, chatID int64, messageID int, skillID int64) {
	today := time.Now().Format("2006-01-02")

	focus, err := b.skills.GetDailyFocus(user.ID, today)
	if err != nil {
		b.edit(chatID, messageID, userNotice(err), nil)
		return
	}

	if focus != nil && focus.Contains(skillID) {
		_, err = b.skills.RemoveFocusSkill(user.ID, skillID, today)
	} else {
		_, err = b.skills.AddFocusSkill(user.ID, skillID, today)
	}
	if err != nil {
		b.showFocusPicker(user, chatID, messageID, userNotice(err))
		return
	}

	b.showFocusPicker(user, chatID, messageID, "")
}

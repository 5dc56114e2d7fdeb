package models

import (
	"testing"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"full name wins", User{FullName: "Alice Smith", Username: "alice"}, "Alice Smith"},
		{"username fallback", User{Username: "alice"}, "alice"},
		{"anonymous fallback", User{}, "friend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDecodeSettingsFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty blob", ""},
		{"garbage blob", "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DecodeSettings(tt.raw)
			if !s.Notifications {
				t.Error("Notifications should default to true")
			}
			if s.DailyReminder != "20:00" {
				t.Errorf("DailyReminder = %q, want 20:00", s.DailyReminder)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	original := UserSettings{Notifications: false, DailyReminder: "21:30"}
	decoded := DecodeSettings(EncodeSettings(original))
	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

func TestDecodeInt64ListBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeInt64List(tt.raw)
			if got == nil || len(got) != 0 {
				t.Errorf("DecodeInt64List(%q) = %v, want empty non-nil slice", tt.raw, got)
			}
		})
	}
}

func TestEncodeInt64ListNil(t *testing.T) {
	if got := EncodeInt64List(nil); got != "[]" {
		t.Errorf("EncodeInt64List(nil) = %q, want []", got)
	}
}

func TestDecodeLessonQuiz(t *testing.T) {
	t.Run("empty column means no quiz", func(t *testing.T) {
		if q := DecodeLessonQuiz(""); q != nil {
			t.Errorf("DecodeLessonQuiz(\"\") = %+v, want nil", q)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		original := &LessonQuiz{Questions: []LessonQuizQuestion{
			{Text: "Q", Options: []string{"a", "b"}, Correct: 1, Explanation: "because"},
		}}
		decoded := DecodeLessonQuiz(EncodeLessonQuiz(original))
		if decoded == nil || len(decoded.Questions) != 1 {
			t.Fatalf("decoded = %+v", decoded)
		}
		q := decoded.Questions[0]
		if q.Correct != 1 || q.Explanation != "because" || len(q.Options) != 2 {
			t.Errorf("question = %+v", q)
		}
	})
}

func TestLessonAnswersKeyedByIndex(t *testing.T) {
	answers := map[int]LessonAnswer{
		0: {Answer: 2, Correct: false},
		3: {Answer: 1, Correct: true},
	}
	decoded := DecodeLessonAnswers(EncodeLessonAnswers(answers))
	if len(decoded) != 2 {
		t.Fatalf("decoded %d answers, want 2", len(decoded))
	}
	if !decoded[3].Correct || decoded[3].Answer != 1 {
		t.Errorf("answer 3 = %+v", decoded[3])
	}
	if decoded[0].Correct {
		t.Errorf("answer 0 = %+v, want incorrect", decoded[0])
	}
}

func TestDecodeCategoryStats(t *testing.T) {
	stats := DecodeCategoryStats(`{"Habits":{"total":4,"correct":3}}`)
	if s := stats["Habits"]; s.Total != 4 || s.Correct != 3 {
		t.Errorf("Habits stat = %+v, want total 4 correct 3", s)
	}

	if got := DecodeCategoryStats("broken"); got == nil || len(got) != 0 {
		t.Errorf("DecodeCategoryStats(broken) = %v, want empty map", got)
	}
}

func TestSkillCooldown(t *testing.T) {
	skill := Skill{CooldownHours: 24}
	if got := skill.Cooldown().Hours(); got != 24 {
		t.Errorf("Cooldown() = %v hours, want 24", got)
	}
}

func TestDailyFocusContains(t *testing.T) {
	focus := DailyFocus{SkillIDs: []int64{1, 2, 3}}
	if !focus.Contains(2) {
		t.Error("Contains(2) = false")
	}
	if focus.Contains(9) {
		t.Error("Contains(9) = true")
	}
}

package bot

import (
	"testing"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		action string
		args   []string
	}{
		{"action only", "menu", "menu", nil},
		{"one arg", "course:12", "course", []string{"12"}},
		{"several args", "lquiz:12:3:1", "lquiz", []string{"12", "3", "1"}},
		{"empty trailing arg", "quiz:cat:", "quiz", []string{"cat", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parsePayload(tt.data)
			if p.action != tt.action {
				t.Errorf("action = %q, want %q", p.action, tt.action)
			}
			if len(p.args) != len(tt.args) {
				t.Fatalf("args = %v, want %v", p.args, tt.args)
			}
			for i := range tt.args {
				if p.args[i] != tt.args[i] {
					t.Errorf("arg %d = %q, want %q", i, p.args[i], tt.args[i])
				}
			}
		})
	}
}

func TestPayloadArgs(t *testing.T) {
	p := parsePayload("skill:42:extra")

	if got := p.arg(0); got != "42" {
		t.Errorf("arg(0) = %q, want 42", got)
	}
	if got := p.arg(5); got != "" {
		t.Errorf("arg(5) = %q, want empty for out of range", got)
	}
	if got := p.arg(-1); got != "" {
		t.Errorf("arg(-1) = %q, want empty", got)
	}

	id, err := p.argInt64(0)
	if err != nil || id != 42 {
		t.Errorf("argInt64(0) = %d, %v", id, err)
	}
	if _, err := p.argInt64(1); err == nil {
		t.Error("argInt64 on a non-numeric arg should fail")
	}
	if _, err := p.argInt(3); err == nil {
		t.Error("argInt on a missing arg should fail")
	}
}

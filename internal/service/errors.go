package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Handlers map these onto
// user-facing notices.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("already completed")
	ErrValidation       = errors.New("validation failed")
	ErrLocked           = errors.New("not unlocked yet")
	ErrNoQuestion       = errors.New("no pending question")
)

// CooldownError is returned when a skill is completed again before its
// cooldown has elapsed. HoursLeft is the whole hours remaining.
type CooldownError struct {
	HoursLeft int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active: ~%d hours left", e.HoursLeft)
}

// FocusLimitError is returned when a focus selection exceeds the daily limit
type FocusLimitError struct {
	Limit int
}

func (e *FocusLimitError) Error() string {
	return fmt.Sprintf("daily focus limit of %d skills exceeded", e.Limit)
}

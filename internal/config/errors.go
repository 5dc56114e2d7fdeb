package config

import "errors"

// ErrMissingBotToken is returned by Validate when BOT_TOKEN is not set
var ErrMissingBotToken = errors.New("BOT_TOKEN is not set")

package reminder

import "errors"

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalidInput     = errors.New("invalid input")
)

package trigger

import "errors"

var (
	// ErrTriggerLimit is returned when adding a new phrase would push a
	// guild past its phrase limit. Updating an existing phrase never
	// counts against the limit.
	ErrTriggerLimit = errors.New("trigger limit reached")

	// ErrEmptyPhrase is returned when a phrase is empty after
	// normalization (trim + lowercase).
	ErrEmptyPhrase = errors.New("trigger phrase is empty")

	// ErrInvalidTrigger is returned when a trigger's payload does not
	// match its kind (reaction without emoji, reply without text).
	ErrInvalidTrigger = errors.New("invalid trigger")
)

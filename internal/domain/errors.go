package domain

import "errors"

var (
	// ErrNoQuestions is returned when the provider reports no questions for
	// the selected criteria (nonzero response_code on an otherwise OK reply).
	ErrNoQuestions = errors.New("No questions available for the selected criteria")
	// ErrRateLimited is the distinguished HTTP 429 condition; consumers show
	// a wait-and-retry notice instead of a generic failure.
	ErrRateLimited = errors.New("too many requests, please wait a moment before trying again")
	// ErrBadPayload indicates the provider payload was absent or did not
	// match the expected shape during normalization.
	ErrBadPayload = errors.New("quiz payload is missing or malformed")
	// ErrNoActiveQuiz is returned when an operation needs a fetched quiz and
	// none is active.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrUnknownCategory indicates the requested category ID is not in the
	// catalog.
	ErrUnknownCategory = errors.New("category not found")
	// ErrInvalidDifficulty indicates a difficulty outside easy/medium/hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrGameNotFound is returned when a game session has not been initialized.
	ErrGameNotFound = errors.New("game session not found")
)

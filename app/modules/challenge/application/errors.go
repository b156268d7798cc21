package challengeservice

import "errors"

var (
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrPlayerNotFound     = errors.New("player not found in this challenge")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidName        = errors.New("challenge name must be at least 3 characters")
	ErrInvalidWindow      = errors.New("end date must be after start date")
	ErrInvalidDate        = errors.New("unrecognised date")
	ErrInvalidRiotID      = errors.New("invalid Riot ID format. Use GameName#TagLine")
	ErrNoPlayers          = errors.New("at least one player is required")
	ErrTooManyPlayers     = errors.New("at most 50 players can be added at once")
	ErrInvalidPlayerInput = errors.New("invalid player input")
	ErrInvalidRegion      = errors.New("unknown region")
)

// ValidationError reports a rejected input value. It unwraps to one of the
// sentinels above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

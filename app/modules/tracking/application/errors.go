package trackingservice

import "errors"

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrForbidden         = errors.New("forbidden")
)

func isDomainFailure(err error) bool {
	return errors.Is(err, ErrChallengeNotFound) || errors.Is(err, ErrForbidden)
}

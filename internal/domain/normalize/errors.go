package normalize

import "errors"

// Sentinel kinds for rejected rows. These allow errors.Is from callers.
var (
	ErrMalformedRow    = errors.New("malformed row")
	ErrUnknownCategory = errors.New("unknown category")
)

func isUnknownCategory(err error) bool {
	return errors.Is(err, ErrUnknownCategory)
}

package standings

import (
	crerr "github.com/cockroachdb/errors"
)

var (
	ErrDecode   = crerr.New("standings payload malformed")
	ErrFetch    = crerr.New("standings fetch failed")
	ErrSchedule = crerr.New("standings refresh schedule rejected")
)

func decodeErrorf(format string, args ...any) error {
	return crerr.Mark(crerr.Newf(format, args...), ErrDecode)
}

func wrapDecodeError(err error, msg string) error {
	return crerr.Mark(crerr.Wrap(err, msg), ErrDecode)
}

// NewFetchError classifies err as a failed refresh fetch.
func NewFetchError(err error, msg string) error {
	if err == nil {
		return crerr.Mark(crerr.New(msg), ErrFetch)
	}
	return crerr.Mark(crerr.Wrap(err, msg), ErrFetch)
}

// NewScheduleError classifies err as a scheduler rejection.
func NewScheduleError(err error, msg string) error {
	if err == nil {
		return crerr.Mark(crerr.New(msg), ErrSchedule)
	}
	return crerr.Mark(crerr.Wrap(err, msg), ErrSchedule)
}

func IsDecodeError(err error) bool {
	return crerr.Is(err, ErrDecode)
}

func IsFetchError(err error) bool {
	return crerr.Is(err, ErrFetch)
}

func IsScheduleError(err error) bool {
	return crerr.Is(err, ErrSchedule)
}

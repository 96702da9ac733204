package export

import "errors"

var (
	ErrUnknownTransition = errors.New("unknown transition")
	ErrSinkClosed        = errors.New("sink closed")
)

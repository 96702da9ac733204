package rain

import "errors"

// ErrInvalidSettings indicates a settings value outside its valid range.
var ErrInvalidSettings = errors.New("rain: invalid settings")

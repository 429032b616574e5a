package domain

import "errors"

// ErrInvalidPayload is returned when a message body is malformed or incomplete
var ErrInvalidPayload = errors.New("invalid status update payload")

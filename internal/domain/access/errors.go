package access

import "errors"

var (
	ErrUnknownModule = errors.New("unknown module")
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidSeed   = errors.New("invalid permission seed")
)

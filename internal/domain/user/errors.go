package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserEmailExists    = errors.New("email already registered")
	ErrInvalidRole        = errors.New("role must be admin or employee")
	ErrInsufficientRole   = errors.New("insufficient role for this resource")
	ErrCallerNotInContext = errors.New("no authenticated caller in context")
)

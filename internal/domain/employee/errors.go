package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrIdentityNotFound = errors.New("no employee could be resolved for this request")
	ErrEmailRequired    = errors.New("employee email is required")
)

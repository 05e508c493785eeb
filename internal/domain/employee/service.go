package employee

import (
	"context"

	"github.com/seunits/attendance-backend-go/internal/domain/user"
)

// IdentityResolver maps a caller supplied identifier to the canonical employee.
type IdentityResolver interface {
	Resolve(ctx context.Context, requestedID string, caller *user.Caller) (Employee, error)
}

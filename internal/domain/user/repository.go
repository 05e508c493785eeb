package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
	RecordLogout(ctx context.Context, id string, at time.Time) error
}

package repository

import (
	"context"

	"github.com/shlok1014/ReWear/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) (string, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, search, role string, page, pageSize int) ([]*entity.User, int, error)
	Count(ctx context.Context) (int, error)

	SetRole(ctx context.Context, id, role string) error
	SetBan(ctx context.Context, id string, banned bool, reason string) error

	// Stat counters are eventually consistent with item writes; a failed
	// increment after a committed item write is tolerated.
	IncrementItemsUploaded(ctx context.Context, id string) error
	IncrementSuccessfulSwaps(ctx context.Context, id string) error
}

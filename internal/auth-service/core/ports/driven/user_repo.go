package driven

import (
	"context"

	"user-auth/internal/auth-service/core/domain/models"
)

// IUserRepo is the persistence port. Lookups return myerrors.ErrNotFound when
// nothing matches; Create returns myerrors.ErrDuplicate on a uniqueness violation.
type IUserRepo interface {
	Create(ctx context.Context, user models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListBlocked(ctx context.Context) ([]models.User, error)
	// SetBlocked flips is_blocked from !blocked to blocked and reports whether a row changed.
	SetBlocked(ctx context.Context, email string, blocked bool) (bool, error)
	Delete(ctx context.Context, id int64) error
}

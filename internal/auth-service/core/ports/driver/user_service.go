package driver

import (
	"context"

	"user-auth/internal/auth-service/core/domain/dto"
)

type IUserService interface {
	List(ctx context.Context) ([]dto.UserView, error)
	Delete(ctx context.Context, id int64) error
	Block(ctx context.Context, req dto.BlockRequest) error
	Unblock(ctx context.Context, req dto.BlockRequest) error
	ListBlocked(ctx context.Context) (dto.BlockedUsers, error)
}

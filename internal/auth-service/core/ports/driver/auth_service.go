package driver

import (
	"context"

	"user-auth/internal/auth-service/core/domain/dto"
	"user-auth/internal/auth-service/core/service"
)

type IAuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (dto.TokenPair, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AccessToken, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (dto.AccessToken, error)
	Authenticate(ctx context.Context, accessToken string) (*service.Claims, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-auth/internal/auth-service/core/domain/dto"
	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	"user-auth/internal/auth-service/core/domain/models"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/config"
	"user-auth/internal/mylogger"
)

type AuthService struct {
	userRepo driven.IUserRepo
	tokens   *TokenIssuer
	events   driven.IUserEventPublisher
	mylog    mylogger.Logger
	now      func() time.Time
}

func NewAuthService(
	cfg *config.Config,
	userRepo driven.IUserRepo,
	events driven.IUserEventPublisher,
	mylogger mylogger.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   NewTokenIssuer(cfg.App.PublicJwtSecret, cfg.App.AccessTokenTTL, cfg.App.RefreshTokenTTL),
		events:   events,
		mylog:    mylogger,
		now:      time.Now,
	}
}

// ======================= Signup =======================
func (as *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (dto.TokenPair, error) {
	mylog := as.mylog.Action("Signup")

	req = normalizeSignup(req)
	if err := validateSignup(req); err != nil {
		mylog.Debug("signup rejected by validation")
		return dto.TokenPair{}, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		mylog.Error("failed to hash password", err)
		return dto.TokenPair{}, myerrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		DateJoined:   as.now().UTC(),
	}

	id, err := as.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, myerrors.ErrDuplicate) {
			conflict := as.attributeConflict(ctx, user)
			mylog.Warn("signup rejected, account already exists", "field", conflict.Field)
			return dto.TokenPair{}, conflict
		}
		mylog.Error("failed to save user in db", err)
		return dto.TokenPair{}, myerrors.Internal(fmt.Errorf("create user: %w", err))
	}
	user.UserId = id

	pair, err := as.tokens.IssuePair(user)
	if err != nil {
		mylog.Error("failed to issue tokens, removing new user", err, "user_id", id)
		if delErr := as.userRepo.Delete(ctx, id); delErr != nil {
			mylog.Error("failed to remove user after token failure", delErr, "user_id", id)
		}
		return dto.TokenPair{}, myerrors.Internal(err)
	}

	emit(ctx, as.events, mylog, messagebrokerdto.UserRegistered, user)

	mylog.Info("user registered successfully", "user_id", id)
	return pair, nil
}

// attributeConflict finds out which unique field collided by looking the
// account up after the store rejected the insert.
func (as *AuthService) attributeConflict(ctx context.Context, user models.User) *myerrors.Error {
	if _, err := as.userRepo.GetByUsername(ctx, user.Username); err == nil {
		return myerrors.ErrUsernameTaken
	} else if !errors.Is(err, myerrors.ErrNotFound) {
		return myerrors.ErrRegistrationConflict.Wrap(err)
	}

	if _, err := as.userRepo.GetByEmail(ctx, user.Email); err == nil {
		return myerrors.ErrEmailRegistered
	} else if !errors.Is(err, myerrors.ErrNotFound) {
		return myerrors.ErrRegistrationConflict.Wrap(err)
	}

	return myerrors.ErrRegistrationConflict
}

// ======================= Login =======================
func (as *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.AccessToken, error) {
	mylog := as.mylog.Action("Login")

	if req.Username == "" || req.Password == "" {
		return dto.AccessToken{}, myerrors.ErrInvalidCredentials
	}

	user, err := as.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			checkPassword(dummyHash(), req.Password)
			mylog.Debug("failed to login, invalid credentials")
			return dto.AccessToken{}, myerrors.ErrInvalidCredentials
		}
		mylog.Error("failed to load user", err)
		return dto.AccessToken{}, myerrors.Internal(fmt.Errorf("get user: %w", err))
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		mylog.Debug("failed to login, invalid credentials")
		return dto.AccessToken{}, myerrors.ErrInvalidCredentials
	}

	if user.IsBlocked {
		mylog.Warn("blocked user tried to log in", "user_id", user.UserId)
		return dto.AccessToken{}, myerrors.ErrUserBlocked
	}

	token, err := as.tokens.IssueAccess(user)
	if err != nil {
		mylog.Error("failed to issue access token", err)
		return dto.AccessToken{}, myerrors.Internal(err)
	}

	mylog.Info("user logged in successfully", "user_id", user.UserId)
	return token, nil
}

// ======================= Refresh =======================
func (as *AuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (dto.AccessToken, error) {
	mylog := as.mylog.Action("Refresh")

	claims, err := as.tokens.Parse(req.Refresh, TokenTypeRefresh)
	if err != nil {
		mylog.Debug("refresh rejected, bad token")
		return dto.AccessToken{}, err
	}

	user, err := as.userRepo.GetByID(ctx, claims.UserId)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			mylog.Debug("refresh rejected, user no longer exists", "user_id", claims.UserId)
			return dto.AccessToken{}, myerrors.ErrInvalidToken
		}
		mylog.Error("failed to load user", err)
		return dto.AccessToken{}, myerrors.Internal(fmt.Errorf("get user: %w", err))
	}

	if user.IsBlocked {
		mylog.Warn("blocked user tried to refresh", "user_id", user.UserId)
		return dto.AccessToken{}, myerrors.ErrUserBlocked
	}

	token, err := as.tokens.IssueAccess(user)
	if err != nil {
		mylog.Error("failed to issue access token", err)
		return dto.AccessToken{}, myerrors.Internal(err)
	}
	return token, nil
}

// Authenticate checks an access token. It does not consult the store, so a
// token issued before a block stays usable until it expires.
func (as *AuthService) Authenticate(ctx context.Context, accessToken string) (*Claims, error) {
	return as.tokens.Parse(accessToken, TokenTypeAccess)
}

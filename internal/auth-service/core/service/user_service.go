package service

import (
	"context"
	"errors"
	"fmt"

	"user-auth/internal/auth-service/core/domain/dto"
	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/mylogger"
)

type UserService struct {
	userRepo driven.IUserRepo
	events   driven.IUserEventPublisher
	mylog    mylogger.Logger
}

func NewUserService(userRepo driven.IUserRepo, events driven.IUserEventPublisher, mylog mylogger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   events,
		mylog:    mylog,
	}
}

func (us *UserService) List(ctx context.Context) ([]dto.UserView, error) {
	users, err := us.userRepo.List(ctx)
	if err != nil {
		us.mylog.Action("ListUsers").Error("failed to list users", err)
		return nil, myerrors.Internal(fmt.Errorf("list users: %w", err))
	}
	return dto.NewUserViews(users), nil
}

func (us *UserService) Delete(ctx context.Context, id int64) error {
	mylog := us.mylog.Action("DeleteUser").With("user_id", id)

	user, err := us.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return myerrors.ErrUserNotFound
		}
		mylog.Error("failed to load user", err)
		return myerrors.Internal(fmt.Errorf("get user: %w", err))
	}

	if err := us.userRepo.Delete(ctx, id); err != nil {
		// someone else removed it between the read and the delete
		if errors.Is(err, myerrors.ErrNotFound) {
			return myerrors.ErrUserNotFound
		}
		mylog.Error("failed to delete user", err)
		return myerrors.Internal(fmt.Errorf("delete user: %w", err))
	}

	emit(ctx, us.events, mylog, messagebrokerdto.UserDeleted, user)

	mylog.Info("user deleted")
	return nil
}

func (us *UserService) Block(ctx context.Context, req dto.BlockRequest) error {
	return us.setBlocked(ctx, req, true)
}

func (us *UserService) Unblock(ctx context.Context, req dto.BlockRequest) error {
	return us.setBlocked(ctx, req, false)
}

// setBlocked moves a user between active and blocked. The read rejects a
// request that is already satisfied; the conditional update rejects one that
// lost a race against an identical request.
func (us *UserService) setBlocked(ctx context.Context, req dto.BlockRequest, blocked bool) error {
	action, stale, eventType := "UnblockUser", myerrors.ErrNotBlocked, messagebrokerdto.UserUnblocked
	if blocked {
		action, stale, eventType = "BlockUser", myerrors.ErrAlreadyBlocked, messagebrokerdto.UserBlocked
	}
	mylog := us.mylog.Action(action)

	email, err := validateBlockRequest(req)
	if err != nil {
		return err
	}

	user, err := us.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, myerrors.ErrNotFound) {
			return myerrors.ErrEmailNotFound
		}
		mylog.Error("failed to load user", err)
		return myerrors.Internal(fmt.Errorf("get user: %w", err))
	}

	if user.IsBlocked == blocked {
		return stale
	}

	changed, err := us.userRepo.SetBlocked(ctx, email, blocked)
	if err != nil {
		mylog.Error("failed to update blocked status", err, "user_id", user.UserId)
		return myerrors.Internal(fmt.Errorf("set blocked: %w", err))
	}
	if !changed {
		mylog.Warn("blocked status changed concurrently", "user_id", user.UserId)
		return stale
	}
	user.IsBlocked = blocked

	emit(ctx, us.events, mylog, eventType, user)

	mylog.Info("blocked status updated", "user_id", user.UserId, "is_blocked", blocked)
	return nil
}

func (us *UserService) ListBlocked(ctx context.Context) (dto.BlockedUsers, error) {
	users, err := us.userRepo.ListBlocked(ctx)
	if err != nil {
		us.mylog.Action("ListBlockedUsers").Error("failed to list blocked users", err)
		return dto.BlockedUsers{}, myerrors.Internal(fmt.Errorf("list blocked users: %w", err))
	}

	result := dto.BlockedUsers{
		Count: len(users),
		Users: dto.NewUserViews(users),
	}
	if result.Count == 0 {
		result.Message = dto.NoBlockedUsersMessage
	}
	return result, nil
}

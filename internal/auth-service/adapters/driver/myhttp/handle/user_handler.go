package handle

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"user-auth/internal/auth-service/core/domain/dto"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/auth-service/core/ports/driver"
	"user-auth/internal/mylogger"
)

type UserHandler struct {
	userService driver.IUserService
	mylog       mylogger.Logger
}

func NewUserHandler(userService driver.IUserService, mylog mylogger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		mylog:       mylog,
	}
}

func (uh *UserHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		users, err := uh.userService.List(ctx)
		if err != nil {
			WriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, users)
	}
}

func (uh *UserHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
		if err != nil {
			WriteError(w, myerrors.NewValidation("Invalid user id", map[string][]string{
				"user_id": {"A valid integer is required."},
			}))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := uh.userService.Delete(ctx, id); err != nil {
			WriteError(w, err)
			return
		}
		uh.mylog.Action("DeleteUser").Info("user deleted", append(actorArgs(r.Context()), "user_id", id)...)

		w.WriteHeader(http.StatusNoContent)
	}
}

func (uh *UserHandler) Block() http.HandlerFunc {
	return uh.setBlocked("BlockUser", uh.userService.Block, "User blocked successfully.")
}

func (uh *UserHandler) Unblock() http.HandlerFunc {
	return uh.setBlocked("UnblockUser", uh.userService.Unblock, "User unblocked successfully.")
}

func (uh *UserHandler) setBlocked(action string, op func(context.Context, dto.BlockRequest) error, okMessage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.BlockRequest
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := op(ctx, req); err != nil {
			WriteError(w, err)
			return
		}
		uh.mylog.Action(action).Info(okMessage, append(actorArgs(r.Context()), "email", strings.TrimSpace(req.Email))...)

		jsonResponse(w, http.StatusOK, map[string]string{"message": okMessage})
	}
}

func (uh *UserHandler) ListBlocked() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		blocked, err := uh.userService.ListBlocked(ctx)
		if err != nil {
			WriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, blocked)
	}
}

package handle

import (
	"context"
	"errors"
	"net/http"
	"time"

	"user-auth/internal/auth-service/core/domain/dto"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/auth-service/core/ports/driver"
	"user-auth/internal/mylogger"
)

type AuthHandler struct {
	authService driver.IAuthService
	mylog       mylogger.Logger
}

func NewAuthHandler(authService driver.IAuthService, mylog mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mylog:       mylog,
	}
}

func (ah *AuthHandler) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SignupRequest

		mylog := ah.mylog.Action("Signup")

		if err := decodeJSON(w, r, &req); err != nil {
			mylog.Debug("failed to parse signup body")
			WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		pair, err := ah.authService.Signup(ctx, req)
		if err != nil {
			var e *myerrors.Error
			if errors.As(err, &e) && e.Kind == myerrors.KindValidation {
				mylog.Debug("signup rejected", "fields", myerrors.FieldErrors(e.Fields).Names())
			}
			WriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, pair)
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest

		mylog := ah.mylog.Action("Login")

		if err := decodeJSON(w, r, &req); err != nil {
			mylog.Debug("failed to parse login body")
			WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		token, err := ah.authService.Login(ctx, req)
		if err != nil {
			WriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, token)
	}
}

func (ah *AuthHandler) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RefreshRequest

		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		token, err := ah.authService.Refresh(ctx, req)
		if err != nil {
			WriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, token)
	}
}

package dto

import (
	"time"

	"user-auth/internal/auth-service/core/domain/models"
)

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// BlockRequest is shared by block and unblock.
type BlockRequest struct {
	Email string `json:"email" validate:"required,max=254,email"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessToken struct {
	Access string `json:"access"`
}

// UserView is the public-safe projection of a user.
type UserView struct {
	Id         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

type BlockedUsers struct {
	Count   int        `json:"count"`
	Users   []UserView `json:"users"`
	Message string     `json:"message,omitempty"`
}

const NoBlockedUsersMessage = "There are no blocked users"

func NewUserView(u models.User) UserView {
	return UserView{
		Id:         u.UserId,
		Username:   u.Username,
		Email:      u.Email,
		DateJoined: u.DateJoined,
	}
}

func NewUserViews(users []models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}

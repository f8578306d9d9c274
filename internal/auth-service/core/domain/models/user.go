package models

import "time"

type User struct {
	UserId       int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
	IsBlocked    bool      `json:"is_blocked" db:"is_blocked"`
}

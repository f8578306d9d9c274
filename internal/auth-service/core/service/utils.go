package service

import (
	"regexp"
	"strings"
	"sync"

	"user-auth/internal/auth-service/core/domain/dto"
	"user-auth/internal/auth-service/core/myerrors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254

	// bcrypt only looks at the first 72 bytes
	MaxPasswordBytes = 72

	HashFactor = 10
)

const (
	msgRequired     = "This field is required."
	msgInvalidEmail = "Enter a valid email address."
	msgBadUsername  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)

// dummyHash is compared against when the username is unknown so that both
// failure paths cost one bcrypt verification.
var dummyHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), HashFactor)
	if err != nil {
		panic(err)
	}
	return string(h)
})

func normalizeSignup(req dto.SignupRequest) dto.SignupRequest {
	return dto.SignupRequest{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
}

func validateSignup(req dto.SignupRequest) error {
	fe := fieldErrors(requestValidator().Struct(req))

	if req.Password != "" {
		for _, msg := range checkPasswordPolicy(req.Password, req.Username, req.Email) {
			fe.Add("password", msg)
		}
	}

	if !fe.Empty() {
		return myerrors.NewValidation("invalid signup data", fe)
	}
	return nil
}

func validateBlockRequest(req dto.BlockRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if fe := fieldErrors(requestValidator().Struct(req)); !fe.Empty() {
		return "", myerrors.NewValidation("invalid request data", fe)
	}
	return req.Email, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), HashFactor)
	return string(bytes), err
}

func checkPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

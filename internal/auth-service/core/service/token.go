package service

import (
	"fmt"
	"strconv"
	"time"

	"user-auth/internal/auth-service/core/domain/dto"
	"user-auth/internal/auth-service/core/domain/models"
	"user-auth/internal/auth-service/core/myerrors"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserId    int64  `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.StandardClaims
}

type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (ti *TokenIssuer) IssueAccess(user models.User) (dto.AccessToken, error) {
	access, err := ti.issue(user, TokenTypeAccess, ti.accessTTL)
	if err != nil {
		return dto.AccessToken{}, err
	}
	return dto.AccessToken{Access: access}, nil
}

func (ti *TokenIssuer) IssuePair(user models.User) (dto.TokenPair, error) {
	access, err := ti.issue(user, TokenTypeAccess, ti.accessTTL)
	if err != nil {
		return dto.TokenPair{}, err
	}
	refresh, err := ti.issue(user, TokenTypeRefresh, ti.refreshTTL)
	if err != nil {
		return dto.TokenPair{}, err
	}
	return dto.TokenPair{Access: access, Refresh: refresh}, nil
}

func (ti *TokenIssuer) issue(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := ti.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserId:    user.UserId,
		Username:  user.Username,
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.UserId, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	})

	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and token type. Every failure is ErrInvalidToken.
func (ti *TokenIssuer) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, myerrors.ErrInvalidToken.Wrap(err)
	}
	if !token.Valid || claims.TokenType != wantType || claims.UserId == 0 {
		return nil, myerrors.ErrInvalidToken
	}
	return claims, nil
}

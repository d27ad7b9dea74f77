package service

import (
	"errors"
	"strings"
	"time"

	"github.com/himalbox/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrJWTSecretMissing JWT 密钥未配置
var ErrJWTSecretMissing = errors.New("jwt secret missing")

// UserJWTClaims 用户端 JWT 载荷
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"token_version"`
	jwt.RegisteredClaims
}

// AdminJWTClaims 管理端 JWT 载荷
type AdminJWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueUserToken 签发用户 JWT
func IssueUserToken(user *models.User, secretKey string, expireHours int) (string, error) {
	if strings.TrimSpace(secretKey) == "" {
		return "", ErrJWTSecretMissing
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// IssueAdminToken 签发管理端 JWT
func IssueAdminToken(username, secretKey string, expireHours int) (string, error) {
	if strings.TrimSpace(secretKey) == "" {
		return "", ErrJWTSecretMissing
	}
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := AdminJWTClaims{
		Username: strings.TrimSpace(username),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

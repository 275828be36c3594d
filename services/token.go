package services

import (
	"fmt"
	"time"

	apperrors "absensi/errors"
	"absensi/types"

	"github.com/dgrijalva/jwt-go"
)

const AccessTokenTTL = 3 * 24 * time.Hour

type UserInfo struct {
	UserId uint `json:"userid"`
	Role   int  `json:"role"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *TokenManager) GenerateToken(userInfo UserInfo) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserInfo: userInfo,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken verifies signature and expiry and returns the caller identity.
func (m *TokenManager) ParseToken(tokenString string) (types.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return types.Identity{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "Token tidak valid", err)
	}
	if !token.Valid || claims.UserInfo.UserId == 0 {
		return types.Identity{}, apperrors.ErrInvalidToken
	}
	return types.Identity{UserID: claims.UserInfo.UserId, Role: claims.UserInfo.Role}, nil
}

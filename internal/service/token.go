// Package service 业务逻辑层
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pu-ac-cn/auth-center/internal/security"
)

// SessionClaims 会话令牌声明
// 统一的声明结构：注册声明 iat/nbf/exp 加自定义身份字段，
// 访问令牌与刷新令牌共用同一结构，仅 token_type 不同。
type SessionClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type,omitempty"` // access / refresh
	UserKey   string `json:"user_key,omitempty"`   // 会话 ID
	UserID    int64  `json:"user_id,omitempty"`
	Account   string `json:"account,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	RealName  string `json:"real_name,omitempty"`
}

// TokenService 令牌编解码服务接口
// 纯计算，不访问网络；会话是否仍然有效由 SessionService 裁决。
type TokenService interface {
	// CreateAccessToken 签发访问令牌
	CreateAccessToken(ctx context.Context, claims *SessionClaims, ttl time.Duration) (string, time.Time, error)
	// CreateRefreshToken 签发刷新令牌
	CreateRefreshToken(ctx context.Context, claims *SessionClaims, ttl time.Duration) (string, time.Time, error)
	// ParseToken 解析并验证令牌，失败时返回 security 包的类型化错误
	ParseToken(ctx context.Context, tokenString string) (*SessionClaims, error)
}

// tokenService 令牌服务实现
type tokenService struct {
	secret []byte
	issuer string
}

// NewTokenService 创建令牌服务
func NewTokenService(secret, issuer string) TokenService {
	return &tokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// StripTokenPrefix 剥离令牌前缀
// 仅剥离精确匹配的 "Bearer " 前缀，区分大小写；无前缀时原样返回。
func StripTokenPrefix(raw string) string {
	if strings.HasPrefix(raw, security.TokenPrefix) {
		return raw[len(security.TokenPrefix):]
	}
	return raw
}

// CreateAccessToken 签发访问令牌
func (s *tokenService) CreateAccessToken(ctx context.Context, claims *SessionClaims, ttl time.Duration) (string, time.Time, error) {
	claims.TokenType = security.TokenTypeAccess
	return s.sign(claims, ttl)
}

// CreateRefreshToken 签发刷新令牌
func (s *tokenService) CreateRefreshToken(ctx context.Context, claims *SessionClaims, ttl time.Duration) (string, time.Time, error) {
	claims.TokenType = security.TokenTypeRefresh
	return s.sign(claims, ttl)
}

// sign 填充注册声明并完成 HMAC-SHA256 签名
func (s *tokenService) sign(claims *SessionClaims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   claims.Account,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, security.ErrMalformedToken.WithCause(err)
	}
	return signed, expiresAt, nil
}

// ParseToken 解析并验证令牌
func (s *tokenService) ParseToken(ctx context.Context, tokenString string) (*SessionClaims, error) {
	tokenString = StripTokenPrefix(tokenString)
	if tokenString == "" {
		return nil, security.ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 拒绝非 HMAC 签名算法，防止算法混淆攻击
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, security.ErrInvalidSignature
		}
		return s.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, security.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, security.ErrInvalidSignature.WithCause(err)
		case errors.Is(err, security.ErrInvalidSignature):
			return nil, security.ErrInvalidSignature
		default:
			return nil, security.ErrMalformedToken.WithCause(err)
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, security.ErrMalformedToken
	}

	return claims, nil
}

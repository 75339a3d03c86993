package service

import (
	"context"

	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/security"
)

// Authenticator 请求认证器接口
// 把入站令牌变成有效的会话记录：解码验签 → 令牌类型检查 → 会话查找。
// 依赖通过构造函数显式注入，任一阶段失败立即返回对应的类型化错误。
type Authenticator interface {
	// Authenticate 认证原始令牌（可含 Bearer 前缀），返回对应的会话记录
	Authenticate(ctx context.Context, rawToken string) (*model.SessionRecord, error)
}

type authenticator struct {
	tokens   TokenService
	sessions SessionService
}

// NewAuthenticator 创建请求认证器
func NewAuthenticator(tokens TokenService, sessions SessionService) Authenticator {
	return &authenticator{
		tokens:   tokens,
		sessions: sessions,
	}
}

// Authenticate 认证原始令牌
// 签名或有效期校验失败时直接终止，不会访问会话存储；
// 结构有效但会话记录不存在时视为登录状态已过期（驱逐即吊销）。
func (a *authenticator) Authenticate(ctx context.Context, rawToken string) (*model.SessionRecord, error) {
	token := StripTokenPrefix(rawToken)
	if token == "" {
		return nil, security.ErrMissingToken
	}

	claims, err := a.tokens.ParseToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// 刷新令牌不能用于访问资源
	if claims.TokenType != security.TokenTypeAccess {
		return nil, security.ErrMalformedToken
	}
	if claims.UserKey == "" {
		return nil, security.ErrMalformedToken
	}

	record, err := a.sessions.Get(ctx, claims.UserKey)
	if err != nil {
		return nil, err
	}

	// 请求已被取消时丢弃查找结果，避免用迟到的数据填充身份上下文
	if ctx.Err() != nil {
		return nil, security.ErrSessionStoreUnavailable.WithCause(ctx.Err())
	}

	return record, nil
}

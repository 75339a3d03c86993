package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/security"
)

// TokenPair 令牌对
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`         // 访问令牌有效期（秒）
	RefreshExpiresIn int64  `json:"refresh_expires_in"` // 刷新令牌有效期（秒）
}

// LoginService 会话签发服务接口
// 凭据校验由上游服务完成，本服务只负责令牌生命周期：
// 签发访问/刷新令牌对、缓存会话记录、刷新续期、注销驱逐。
type LoginService interface {
	// IssueSession 为已验证的身份签发新会话
	// record 携带身份与授权快照，会话 ID 与最近登录信息由本方法填充
	IssueSession(ctx context.Context, record *model.SessionRecord, clientID string) (*TokenPair, error)
	// Refresh 用刷新令牌为同一会话换发新的访问令牌并延长会话 TTL
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout 注销会话：删除缓存记录，集群内所有实例立即可见
	Logout(ctx context.Context, sessionID string) error
}

// LoginServiceConfig 会话签发配置
// 客户端未显式配置令牌有效期时使用这里的全局默认值。
type LoginServiceConfig struct {
	AccessExpiry  time.Duration // 访问令牌默认有效期
	RefreshExpiry time.Duration // 刷新令牌默认有效期
}

type loginService struct {
	tokens   TokenService
	sessions SessionService
	clients  ClientService

	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewLoginService 创建会话签发服务
func NewLoginService(tokens TokenService, sessions SessionService, clients ClientService, config *LoginServiceConfig) LoginService {
	if config == nil {
		config = &LoginServiceConfig{}
	}
	return &loginService{
		tokens:        tokens,
		sessions:      sessions,
		clients:       clients,
		accessExpiry:  config.AccessExpiry,
		refreshExpiry: config.RefreshExpiry,
	}
}

// IssueSession 签发新会话
func (s *loginService) IssueSession(ctx context.Context, record *model.SessionRecord, clientID string) (*TokenPair, error) {
	client, err := s.clients.LoadByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// 每次登录生成全新会话 ID，存活期内不会复用
	record.SessionID = uuid.New().String()
	record.ClientID = clientID
	if record.LastLoginTime.IsZero() {
		record.LastLoginTime = time.Now()
	}

	claims := &SessionClaims{
		UserKey:  record.SessionID,
		UserID:   record.UserID,
		Account:  record.Account,
		ClientID: clientID,
		RealName: record.RealName,
	}

	accessTTL := client.AccessExpiry(s.accessExpiry)
	refreshTTL := client.RefreshExpiry(s.refreshExpiry)

	accessToken, _, err := s.tokens.CreateAccessToken(ctx, claims, accessTTL)
	if err != nil {
		return nil, err
	}

	refreshClaims := *claims
	refreshToken, _, err := s.tokens.CreateRefreshToken(ctx, &refreshClaims, refreshTTL)
	if err != nil {
		return nil, err
	}

	// 会话记录 TTL 跟随访问令牌有效期：会话不会比令牌的名义有效窗口活得更久
	if err := s.sessions.Put(ctx, record, accessTTL); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(accessTTL / time.Second),
		RefreshExpiresIn: int64(refreshTTL / time.Second),
	}, nil
}

// Refresh 换发访问令牌
// 刷新不改变会话身份：沿用原会话 ID，只延长记录 TTL 并签发新的访问令牌。
func (s *loginService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != security.TokenTypeRefresh {
		return nil, security.ErrMalformedToken
	}

	record, err := s.sessions.Get(ctx, claims.UserKey)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.LoadByClientID(ctx, record.ClientID)
	if err != nil {
		return nil, err
	}

	newClaims := &SessionClaims{
		UserKey:  record.SessionID,
		UserID:   record.UserID,
		Account:  record.Account,
		ClientID: record.ClientID,
		RealName: record.RealName,
	}

	accessTTL := client.AccessExpiry(s.accessExpiry)
	accessToken, _, err := s.tokens.CreateAccessToken(ctx, newClaims, accessTTL)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Refresh(ctx, record.SessionID, accessTTL); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     StripTokenPrefix(refreshToken),
		TokenType:        "Bearer",
		ExpiresIn:        int64(accessTTL / time.Second),
		RefreshExpiresIn: int64(time.Until(claims.ExpiresAt.Time) / time.Second),
	}, nil
}

// Logout 注销会话
func (s *loginService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Remove(ctx, sessionID)
}

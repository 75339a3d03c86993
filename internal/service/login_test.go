package service

import (
	"context"
	"testing"
	"time"

	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoginService(t *testing.T) (LoginService, TokenService, SessionService, func()) {
	_, client, cleanup := setupTestRedis(t)

	tokens := newTestTokenService()
	sessions := NewSessionService(client, nil)
	clients := NewClientService(newFakeClientRepository(activeTestClient("web")), time.Minute)

	return NewLoginService(tokens, sessions, clients, nil), tokens, sessions, cleanup
}

func loginRecord() *model.SessionRecord {
	return &model.SessionRecord{
		UserID:      42,
		Account:     "alice",
		RealName:    "爱丽丝",
		Roles:       []string{"dept:manager"},
		Permissions: []string{"system:user:list"},
	}
}

func TestLoginService_IssueSession(t *testing.T) {
	svc, tokens, sessions, cleanup := setupLoginService(t)
	defer cleanup()
	ctx := context.Background()

	record := loginRecord()
	pair, err := svc.IssueSession(ctx, record, "web")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
	assert.Equal(t, int64(7200), pair.RefreshExpiresIn)
	assert.NotEmpty(t, record.SessionID)
	assert.Equal(t, "web", record.ClientID)
	assert.False(t, record.LastLoginTime.IsZero())

	// 访问令牌的 user_key 指向新会话
	claims, err := tokens.ParseToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, security.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, record.SessionID, claims.UserKey)
	assert.Equal(t, int64(42), claims.UserID)

	refreshClaims, err := tokens.ParseToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, security.TokenTypeRefresh, refreshClaims.TokenType)
	assert.Equal(t, record.SessionID, refreshClaims.UserKey)

	// 会话记录已写入共享存储
	stored, err := sessions.Get(ctx, record.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Account)
	assert.Equal(t, record.Roles, stored.Roles)
}

// 会话记录 TTL 跟随访问令牌有效期
func TestLoginService_SessionTTLFollowsAccessToken(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	tokens := newTestTokenService()
	sessions := NewSessionService(client, nil)
	clients := NewClientService(newFakeClientRepository(activeTestClient("web")), time.Minute)
	svc := NewLoginService(tokens, sessions, clients, nil)

	record := loginRecord()
	_, err := svc.IssueSession(ctx, record, "web")
	require.NoError(t, err)

	ttl := mr.TTL("login_tokens:" + record.SessionID)
	assert.Equal(t, time.Hour, ttl)
}

// 客户端未配置有效期时使用全局配置的默认值
func TestLoginService_ConfiguredDefaultExpiry(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	// 客户端不带任何 TTL 覆盖
	bare := &model.Client{ClientID: "bare", Status: model.StatusActive}
	tokens := newTestTokenService()
	sessions := NewSessionService(client, nil)
	clients := NewClientService(newFakeClientRepository(bare), time.Minute)
	svc := NewLoginService(tokens, sessions, clients, &LoginServiceConfig{
		AccessExpiry:  10 * time.Minute,
		RefreshExpiry: 20 * time.Minute,
	})

	record := loginRecord()
	pair, err := svc.IssueSession(ctx, record, "bare")
	require.NoError(t, err)

	assert.Equal(t, int64(600), pair.ExpiresIn)
	assert.Equal(t, int64(1200), pair.RefreshExpiresIn)

	// 会话记录 TTL 同样跟随配置的默认值
	ttl := mr.TTL("login_tokens:" + record.SessionID)
	assert.Equal(t, 10*time.Minute, ttl)
}

// 全局配置也缺省时退回包内默认值
func TestLoginService_PackageDefaultExpiry(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	bare := &model.Client{ClientID: "bare", Status: model.StatusActive}
	tokens := newTestTokenService()
	sessions := NewSessionService(client, nil)
	clients := NewClientService(newFakeClientRepository(bare), time.Minute)
	svc := NewLoginService(tokens, sessions, clients, nil)

	pair, err := svc.IssueSession(ctx, loginRecord(), "bare")
	require.NoError(t, err)

	assert.Equal(t, int64(model.DefaultAccessTokenTTL), pair.ExpiresIn)
	assert.Equal(t, int64(model.DefaultRefreshTokenTTL), pair.RefreshExpiresIn)
}

// 两次登录产生不同会话 ID，互不影响
func TestLoginService_IssueSession_FreshSessionID(t *testing.T) {
	svc, _, sessions, cleanup := setupLoginService(t)
	defer cleanup()
	ctx := context.Background()

	first := loginRecord()
	_, err := svc.IssueSession(ctx, first, "web")
	require.NoError(t, err)

	second := loginRecord()
	_, err = svc.IssueSession(ctx, second, "web")
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)

	// 注销第二个会话不影响第一个
	require.NoError(t, svc.Logout(ctx, second.SessionID))
	_, err = sessions.Get(ctx, first.SessionID)
	assert.NoError(t, err)
}

func TestLoginService_IssueSession_UnknownClient(t *testing.T) {
	svc, _, _, cleanup := setupLoginService(t)
	defer cleanup()

	_, err := svc.IssueSession(context.Background(), loginRecord(), "ghost")
	assert.ErrorIs(t, err, security.ErrUnknownClient)
}

func TestLoginService_Refresh(t *testing.T) {
	svc, tokens, _, cleanup := setupLoginService(t)
	defer cleanup()
	ctx := context.Background()

	record := loginRecord()
	pair, err := svc.IssueSession(ctx, record, "web")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// 刷新沿用原会话，只换发新的访问令牌
	claims, err := tokens.ParseToken(ctx, renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, record.SessionID, claims.UserKey)
	assert.Equal(t, pair.RefreshToken, renewed.RefreshToken)
	assert.Equal(t, int64(3600), renewed.ExpiresIn)
}

// 刷新延长会话 TTL
func TestLoginService_Refresh_ExtendsSession(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	tokens := newTestTokenService()
	sessions := NewSessionService(client, nil)
	clients := NewClientService(newFakeClientRepository(activeTestClient("web")), time.Minute)
	svc := NewLoginService(tokens, sessions, clients, nil)

	record := loginRecord()
	pair, err := svc.IssueSession(ctx, record, "web")
	require.NoError(t, err)

	// 消耗掉一部分 TTL 后刷新，剩余有效期应被重置
	mr.FastForward(30 * time.Minute)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	ttl := mr.TTL("login_tokens:" + record.SessionID)
	assert.Equal(t, time.Hour, ttl)
}

// 访问令牌不能用于刷新
func TestLoginService_Refresh_AccessTokenRejected(t *testing.T) {
	svc, _, _, cleanup := setupLoginService(t)
	defer cleanup()
	ctx := context.Background()

	pair, err := svc.IssueSession(ctx, loginRecord(), "web")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, security.ErrMalformedToken)
}

// 会话已注销后刷新失败
func TestLoginService_Refresh_AfterLogout(t *testing.T) {
	svc, _, _, cleanup := setupLoginService(t)
	defer cleanup()
	ctx := context.Background()

	record := loginRecord()
	pair, err := svc.IssueSession(ctx, record, "web")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, record.SessionID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, security.ErrSessionExpired)
}

func TestLoginService_Logout(t *testing.T) {
	svc, _, sessions, cleanup := setupLoginService(t)
	defer cleanup()
	ctx := context.Background()

	record := loginRecord()
	_, err := svc.IssueSession(ctx, record, "web")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, record.SessionID))

	_, err = sessions.Get(ctx, record.SessionID)
	assert.ErrorIs(t, err, security.ErrSessionExpired)

	// 空会话 ID 的注销是幂等空操作
	assert.NoError(t, svc.Logout(ctx, ""))
}

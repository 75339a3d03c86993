package security

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/auth-center/internal/model"
)

// AuthContext 请求级身份上下文
// 仅存活于单个请求的处理期间，认证通过后由认证中间件写入，
// 请求结束时无条件清除，不得跨请求复用。
type AuthContext struct {
	SessionID string `json:"session_id"`
	UserID    int64  `json:"user_id"`
	Account   string `json:"account"`
	ClientID  string `json:"client_id"`
	RawToken  string `json:"-"`
}

// IsEmpty 判断上下文是否为空（匿名请求）
func (a *AuthContext) IsEmpty() bool {
	return a == nil || a.SessionID == ""
}

// gin 上下文键
const (
	ctxKeyAuth    = "auth_context"
	ctxKeySession = "auth_session_record"
)

type authCtxKey struct{}

// SetAuthContext 将认证上下文写入当前请求
func SetAuthContext(c *gin.Context, ac *AuthContext, record *model.SessionRecord) {
	c.Set(ctxKeyAuth, ac)
	c.Set(ctxKeySession, record)
	// 同步写入 request context，供脱离 gin 的调用链（如出站透传）读取
	c.Request = c.Request.WithContext(WithAuthContext(c.Request.Context(), ac))
}

// GetAuthContext 读取当前请求的认证上下文
func GetAuthContext(c *gin.Context) (*AuthContext, bool) {
	v, ok := c.Get(ctxKeyAuth)
	if !ok {
		return nil, false
	}
	ac, ok := v.(*AuthContext)
	if !ok || ac.IsEmpty() {
		return nil, false
	}
	return ac, true
}

// GetSessionRecord 读取当前请求缓存的会话记录
func GetSessionRecord(c *gin.Context) (*model.SessionRecord, bool) {
	v, ok := c.Get(ctxKeySession)
	if !ok {
		return nil, false
	}
	record, ok := v.(*model.SessionRecord)
	return record, ok && record != nil
}

// ClearAuthContext 清除当前请求的认证上下文
// 在认证中间件中通过 defer 调用，确保任何退出路径（包括 panic）都会执行，
// 避免身份在复用的执行单元间泄漏。
func ClearAuthContext(c *gin.Context) {
	c.Set(ctxKeyAuth, nil)
	c.Set(ctxKeySession, nil)
}

// WithAuthContext 将认证上下文挂载到 context.Context
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authCtxKey{}, ac)
}

// FromContext 从 context.Context 读取认证上下文
func FromContext(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authCtxKey{}).(*AuthContext)
	if !ok || ac.IsEmpty() {
		return nil, false
	}
	return ac, true
}

package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/auth-center/internal/security"
	"github.com/pu-ac-cn/auth-center/internal/service"
	"github.com/pu-ac-cn/auth-center/pkg/response"
)

// Auth 认证中间件
// 请求处理的认证状态机：无令牌直接拒绝（豁免路径除外）；
// 有令牌则验签、查会话、填充认证上下文；任一阶段失败立即终止。
// 认证上下文在请求结束时无条件清除，包括 panic 退出路径。
func Auth(auth service.Authenticator, exemptPaths []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 豁免路径不做认证，匿名放行
		if security.MatchPath(c.Request.URL.Path, exemptPaths) {
			c.Next()
			return
		}

		rawToken := c.GetHeader(security.HeaderAuthorization)

		record, err := auth.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			response.AuthError(c, err)
			c.Abort()
			return
		}

		security.SetAuthContext(c, &security.AuthContext{
			SessionID: record.SessionID,
			UserID:    record.UserID,
			Account:   record.Account,
			ClientID:  record.ClientID,
			RawToken:  service.StripTokenPrefix(rawToken),
		}, record)
		// 执行单元会被复用，上下文必须随请求一起消亡
		defer security.ClearAuthContext(c)

		c.Next()
	}
}

// OptionalAuth 可选认证中间件
// 令牌有效则填充认证上下文，无令牌或令牌无效时匿名放行。
func OptionalAuth(auth service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken := c.GetHeader(security.HeaderAuthorization)
		if rawToken == "" {
			c.Next()
			return
		}

		record, err := auth.Authenticate(c.Request.Context(), rawToken)
		if err != nil {
			c.Next()
			return
		}

		security.SetAuthContext(c, &security.AuthContext{
			SessionID: record.SessionID,
			UserID:    record.UserID,
			Account:   record.Account,
			ClientID:  record.ClientID,
			RawToken:  service.StripTokenPrefix(rawToken),
		}, record)
		defer security.ClearAuthContext(c)

		c.Next()
	}
}

// InternalOnly 内部调用检查中间件
// 仅接受携带可信内部标识头的服务间调用，不走令牌验签与会话查找。
// requireIdentity 为真时，透传的用户身份头必须存在且非空白。
func InternalOnly(requireIdentity bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(security.HeaderFromSource) != security.SourceInner {
			response.AuthError(c, security.ErrNotInternalCaller)
			c.Abort()
			return
		}

		if requireIdentity {
			userID := strings.TrimSpace(c.GetHeader(security.HeaderUserID))
			account := strings.TrimSpace(c.GetHeader(security.HeaderAccount))
			if userID == "" || account == "" {
				response.AuthError(c, security.ErrMissingInternalIdentity)
				c.Abort()
				return
			}
			if id, err := strconv.ParseInt(userID, 10, 64); err == nil {
				c.Set("internal_user_id", id)
			}
			c.Set("internal_account", account)
		}

		c.Next()
	}
}

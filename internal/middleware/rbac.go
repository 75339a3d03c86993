// Package middleware 中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/auth-center/internal/security"
	"github.com/pu-ac-cn/auth-center/pkg/response"
)

// 授权检查中间件
// 在路由注册时按声明顺序组合，逐个求值、首个失败即短路；
// 所有检查只读取认证中间件缓存的会话记录，不产生任何副作用。

// RequireLogin 要求已登录
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := security.GetAuthContext(c); !ok {
			response.AuthError(c, security.ErrMissingToken)
			c.Abort()
			return
		}
		c.Next()
	}
}

// PermitAll 无条件放行
func PermitAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// RequireRole 要求拥有指定角色
// 超级管理员角色恒通过，其余按简单通配符匹配（如 dept:*）。
func RequireRole(role string) gin.HandlerFunc {
	return requireRecord(func(roles, _ []string) bool {
		return security.HasRole(roles, role)
	})
}

// RequireAnyRole 要求拥有任一指定角色
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	return requireRecord(func(owned, _ []string) bool {
		return security.HasAnyRole(owned, roles...)
	})
}

// RequirePermission 要求拥有指定权限
// 全量权限 *:*:* 恒通过，其余按简单通配符匹配。
func RequirePermission(permission string) gin.HandlerFunc {
	return requireRecord(func(_, perms []string) bool {
		return security.HasPermission(perms, permission)
	})
}

// RequireAnyPermission 要求拥有任一指定权限
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return requireRecord(func(_, perms []string) bool {
		return security.HasAnyPermission(perms, permissions...)
	})
}

// DenyAll 仅超级管理员可通过
// 用于无论细粒度权限如何都只对超级管理员开放的操作。
func DenyAll() gin.HandlerFunc {
	return requireRecord(func(roles, _ []string) bool {
		for _, r := range roles {
			if r == security.SuperAdminRole {
				return true
			}
		}
		return false
	})
}

// requireRecord 通用授权检查骨架：未登录返回未认证，检查失败返回无权限
func requireRecord(check func(roles, permissions []string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, ok := security.GetSessionRecord(c)
		if !ok {
			response.AuthError(c, security.ErrMissingToken)
			c.Abort()
			return
		}

		if !check(record.Roles, record.Permissions) {
			response.AuthError(c, security.ErrInsufficientPermission)
			c.Abort()
			return
		}

		c.Next()
	}
}

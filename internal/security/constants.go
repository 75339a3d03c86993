// Package security 认证安全核心：请求头约定、认证上下文、错误分类与权限匹配
package security

// 请求头约定
const (
	// HeaderAuthorization 携带用户令牌的请求头
	HeaderAuthorization = "Authorization"
	// TokenPrefix 令牌前缀，剥离时区分大小写，仅精确匹配
	TokenPrefix = "Bearer "

	// HeaderFromSource 内部调用标识头
	HeaderFromSource = "From-Source"
	// SourceInner 内部调用标识值，携带该值的请求视为可信服务间调用
	SourceInner = "inner"

	// 身份透传请求头，由 IdentityPropagator 写入下游请求
	HeaderUserKey  = "X-User-Key"     // 会话 ID
	HeaderUserID   = "X-User-Id"      // 用户 ID
	HeaderAccount  = "X-User-Account" // 登录账号
	HeaderClientID = "X-Client-Id"    // 客户端 ID
)

// 令牌类型
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// 权限模型保留值
const (
	// SuperAdminRole 超级管理员角色，拥有该角色时任何角色检查均通过
	SuperAdminRole = "admin"
	// AllPermission 全量权限标识，拥有该权限时任何权限检查均通过
	AllPermission = "*:*:*"
)

// DefaultCachePrefix 会话缓存键前缀，完整键为 <前缀><sessionId>
const DefaultCachePrefix = "login_tokens:"

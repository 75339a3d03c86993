package security

import "fmt"

// Kind 认证错误类别
type Kind int

// 错误类别枚举
const (
	KindMissingToken Kind = iota + 1
	KindMalformedToken
	KindExpiredToken
	KindInvalidSignature
	KindSessionExpired
	KindUnknownClient
	KindInsufficientPermission
	KindNotInternalCaller
	KindMissingInternalIdentity
	KindSessionStoreUnavailable
)

// AuthError 认证错误
// 扁平的错误枚举：每个类别携带稳定的字符串错误码和消息，
// 由外部协作方（响应层）映射为对外表示，本包不渲染响应。
type AuthError struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

// Error 实现 error 接口
func (e *AuthError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap 返回底层原因
func (e *AuthError) Unwrap() error {
	return e.cause
}

// Is 同类别错误视为相等，使 errors.Is(err, ErrXxx) 对携带原因的副本仍然成立
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithCause 携带底层原因，返回副本，哨兵值本身不被修改
func (e *AuthError) WithCause(cause error) *AuthError {
	return &AuthError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		cause:   cause,
	}
}

// 认证错误哨兵值
var (
	ErrMissingToken            = &AuthError{Kind: KindMissingToken, Code: "auth.token.missing", Message: "未提供认证令牌"}
	ErrMalformedToken          = &AuthError{Kind: KindMalformedToken, Code: "auth.token.malformed", Message: "认证令牌格式错误"}
	ErrExpiredToken            = &AuthError{Kind: KindExpiredToken, Code: "auth.token.expired", Message: "认证令牌已过期"}
	ErrInvalidSignature        = &AuthError{Kind: KindInvalidSignature, Code: "auth.token.signature", Message: "令牌签名验证失败"}
	ErrSessionExpired          = &AuthError{Kind: KindSessionExpired, Code: "auth.session.expired", Message: "登录状态已过期，请重新登录"}
	ErrUnknownClient           = &AuthError{Kind: KindUnknownClient, Code: "auth.client.unknown", Message: "客户端未注册"}
	ErrInsufficientPermission  = &AuthError{Kind: KindInsufficientPermission, Code: "auth.permission.denied", Message: "没有权限执行此操作"}
	ErrNotInternalCaller       = &AuthError{Kind: KindNotInternalCaller, Code: "auth.internal.forbidden", Message: "没有内部访问权限"}
	ErrMissingInternalIdentity = &AuthError{Kind: KindMissingInternalIdentity, Code: "auth.internal.identity", Message: "内部调用缺少用户身份信息"}
	ErrSessionStoreUnavailable = &AuthError{Kind: KindSessionStoreUnavailable, Code: "auth.store.unavailable", Message: "会话存储暂时不可用"}
)

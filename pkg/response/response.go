// Package response 标准响应封装
// 认证核心只产出类型化错误，本包负责把错误类别映射为对外的业务码与
// HTTP 状态码，是错误表示的唯一出口。
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/auth-center/internal/security"
)

// Response 标准响应结构
// 字段顺序：code -> msg -> data
type Response struct {
	Code int         `json:"code"` // 业务状态码，0 表示成功
	Msg  string      `json:"msg"`  // 响应消息（中文）
	Data interface{} `json:"data"` // 响应数据
}

// 业务错误码
const (
	CodeSuccess = 0 // 操作成功

	// 参数错误 10xxx
	CodeInvalidRequest = 10001 // 请求参数无效

	// 认证错误 20xxx
	CodeMissingToken     = 20001 // 未提供认证令牌
	CodeInvalidToken     = 20002 // 令牌无效
	CodeTokenExpired     = 20003 // 令牌已过期
	CodeSessionExpired   = 20004 // 登录状态已过期
	CodeInvalidClient    = 20005 // 客户端未注册
	CodeForbidden        = 20006 // 无权访问该资源
	CodeNotInternal      = 20007 // 没有内部访问权限
	CodeInternalIdentity = 20008 // 内部调用缺少用户身份

	// 服务器错误 90xxx
	CodeServerError = 90001 // 服务器内部错误
	CodeUnavailable = 90002 // 会话存储暂时不可用
)

// 错误码对应的消息
var codeMessages = map[int]string{
	CodeSuccess:          "操作成功",
	CodeInvalidRequest:   "请求参数无效",
	CodeMissingToken:     "未提供认证令牌",
	CodeInvalidToken:     "令牌无效",
	CodeTokenExpired:     "令牌已过期",
	CodeSessionExpired:   "登录状态已过期，请重新登录",
	CodeInvalidClient:    "客户端未注册",
	CodeForbidden:        "无权访问该资源",
	CodeNotInternal:      "没有内部访问权限",
	CodeInternalIdentity: "内部调用缺少用户身份信息",
	CodeServerError:      "服务器内部错误，请稍后重试",
	CodeUnavailable:      "服务暂时不可用，请稍后重试",
}

// 认证错误类别到业务码的映射
var kindCodes = map[security.Kind]int{
	security.KindMissingToken:            CodeMissingToken,
	security.KindMalformedToken:          CodeInvalidToken,
	security.KindExpiredToken:            CodeTokenExpired,
	security.KindInvalidSignature:        CodeInvalidToken,
	security.KindSessionExpired:          CodeSessionExpired,
	security.KindUnknownClient:           CodeInvalidClient,
	security.KindInsufficientPermission:  CodeForbidden,
	security.KindNotInternalCaller:       CodeNotInternal,
	security.KindMissingInternalIdentity: CodeInternalIdentity,
	security.KindSessionStoreUnavailable: CodeUnavailable,
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: CodeSuccess,
		Msg:  codeMessages[CodeSuccess],
		Data: data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int) {
	msg, ok := codeMessages[code]
	if !ok {
		msg = "未知错误"
	}
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}

// ErrorWithMsg 错误响应（自定义消息）
func ErrorWithMsg(c *gin.Context, code int, msg string) {
	c.JSON(codeToHTTPStatus(code), Response{
		Code: code,
		Msg:  msg,
		Data: nil,
	})
}

// AuthError 渲染认证错误
// 将 security.AuthError 的类别映射为业务码；非认证错误按服务器错误处理。
func AuthError(c *gin.Context, err error) {
	var ae *security.AuthError
	if errors.As(err, &ae) {
		if code, ok := kindCodes[ae.Kind]; ok {
			ErrorWithMsg(c, code, ae.Message)
			return
		}
	}
	Error(c, CodeServerError)
}

// codeToHTTPStatus 业务错误码转 HTTP 状态码
func codeToHTTPStatus(code int) int {
	switch {
	case code == CodeSuccess:
		return http.StatusOK
	case code >= 10000 && code < 20000:
		return http.StatusBadRequest
	case code >= 20000 && code < 30000:
		switch code {
		case CodeForbidden, CodeNotInternal, CodeInternalIdentity:
			return http.StatusForbidden
		default:
			return http.StatusUnauthorized
		}
	case code == CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

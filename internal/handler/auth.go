// Package handler HTTP 处理器
package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/security"
	"github.com/pu-ac-cn/auth-center/internal/service"
	"github.com/pu-ac-cn/auth-center/pkg/response"
)

// AuthHandler 令牌处理器
type AuthHandler struct {
	loginService service.LoginService
}

// NewAuthHandler 创建令牌处理器
func NewAuthHandler(loginSvc service.LoginService) *AuthHandler {
	return &AuthHandler{loginService: loginSvc}
}

// IssueRequest 会话签发请求
// 凭据校验由上游认证服务完成后内部调用本接口，携带已验证的身份快照。
type IssueRequest struct {
	UserID      int64    `json:"user_id" binding:"required"`
	Account     string   `json:"account" binding:"required"`
	ClientID    string   `json:"client_id" binding:"required"`
	DeptID      int64    `json:"dept_id"`
	RealName    string   `json:"real_name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	DataScopes  []int64  `json:"data_scopes"`
	LoginIP     string   `json:"login_ip"`
}

// Create 签发新会话
// POST /api/v1/token/create（仅内部调用）
func (h *AuthHandler) Create(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	record := &model.SessionRecord{
		UserID:        req.UserID,
		DeptID:        req.DeptID,
		Account:       req.Account,
		RealName:      req.RealName,
		Status:        model.StatusActive,
		Roles:         req.Roles,
		Permissions:   req.Permissions,
		DataScopes:    req.DataScopes,
		LastLoginTime: time.Now(),
		LastLoginIP:   req.LoginIP,
	}
	if record.LastLoginIP == "" {
		record.LastLoginIP = c.ClientIP()
	}

	pair, err := h.loginService.IssueSession(c.Request.Context(), record, req.ClientID)
	if err != nil {
		response.AuthError(c, err)
		return
	}

	response.Success(c, pair)
}

// RefreshRequest 令牌刷新请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 刷新访问令牌
// POST /api/v1/token/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithMsg(c, response.CodeInvalidRequest, "参数错误: "+err.Error())
		return
	}

	pair, err := h.loginService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.AuthError(c, err)
		return
	}

	response.Success(c, pair)
}

// Logout 注销当前会话
// DELETE /api/v1/token/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ac, ok := security.GetAuthContext(c)
	if !ok {
		response.AuthError(c, security.ErrMissingToken)
		return
	}

	if err := h.loginService.Logout(c.Request.Context(), ac.SessionID); err != nil {
		response.AuthError(c, err)
		return
	}

	response.Success(c, nil)
}

// Status 查询当前登录状态
// GET /api/v1/token/status（匿名可访问：令牌有效时返回身份摘要，否则返回未登录）
func (h *AuthHandler) Status(c *gin.Context) {
	ac, ok := security.GetAuthContext(c)
	if !ok {
		response.Success(c, gin.H{"authenticated": false})
		return
	}

	response.Success(c, gin.H{
		"authenticated": true,
		"user_id":       ac.UserID,
		"account":       ac.Account,
		"client_id":     ac.ClientID,
	})
}

// UserInfo 查询当前会话信息
// GET /api/v1/token/userinfo
func (h *AuthHandler) UserInfo(c *gin.Context) {
	record, ok := security.GetSessionRecord(c)
	if !ok {
		response.AuthError(c, security.ErrMissingToken)
		return
	}

	response.Success(c, record)
}

// Package model 数据模型定义
package model

import (
	"time"
)

// SessionRecord 登录会话记录
// 登录成功后以 sessionId 为键写入共享缓存，是"会话是否仍然有效"的权威数据。
// 身份字段在会话存续期内不可变，只有 TTL 和最近登录信息会被刷新；
// 注销通过删除该记录实现（缓存驱逐即吊销），不维护令牌黑名单。
type SessionRecord struct {
	SessionID     string    `json:"session_id"`
	UserID        int64     `json:"user_id"`
	DeptID        int64     `json:"dept_id,omitempty"`
	ClientID      string    `json:"client_id"`
	Account       string    `json:"account"`
	RealName      string    `json:"real_name,omitempty"`
	Status        string    `json:"status,omitempty"`
	Roles         []string  `json:"roles,omitempty"`
	Permissions   []string  `json:"permissions,omitempty"`
	DataScopes    []int64   `json:"data_scopes,omitempty"`
	LastLoginTime time.Time `json:"last_login_time,omitempty"`
	LastLoginIP   string    `json:"last_login_ip,omitempty"`
}

// IsDisabled 检查会话对应的账号是否已被禁用
func (s *SessionRecord) IsDisabled() bool {
	return s.Status == StatusDisabled
}

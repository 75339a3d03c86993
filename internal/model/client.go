package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 状态常量
const (
	StatusActive   = "active"   // 启用
	StatusDisabled = "disabled" // 禁用
)

// 令牌有效期默认值（秒）
const (
	DefaultAccessTokenTTL  = 7200  // 访问令牌默认 2 小时
	DefaultRefreshTokenTTL = 28800 // 刷新令牌默认 8 小时
)

// Client 接入客户端
// 每个接入方（Web 端、App 端、第三方系统）注册一行，
// 签发令牌时按 client_id 选择访问/刷新令牌有效期。
type Client struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	ClientID     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"client_id"`
	ClientSecret string         `gorm:"type:varchar(255);not null" json:"-"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	AccessTTL    int64          `gorm:"default:7200" json:"access_ttl"`   // 访问令牌有效期（秒）
	RefreshTTL   int64          `gorm:"default:28800" json:"refresh_ttl"` // 刷新令牌有效期（秒）
	Status       string         `gorm:"type:varchar(20);default:active" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 表名
func (Client) TableName() string {
	return "auth_clients"
}

// BeforeCreate 创建前自动生成 UUID
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IsActive 检查客户端是否启用
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// AccessExpiry 访问令牌有效期
// 客户端未显式配置时退回 fallback（全局配置的默认值），
// fallback 也未设置时使用包内默认值。
func (c *Client) AccessExpiry(fallback time.Duration) time.Duration {
	if c.AccessTTL > 0 {
		return time.Duration(c.AccessTTL) * time.Second
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultAccessTokenTTL * time.Second
}

// RefreshExpiry 刷新令牌有效期
func (c *Client) RefreshExpiry(fallback time.Duration) time.Duration {
	if c.RefreshTTL > 0 {
		return time.Duration(c.RefreshTTL) * time.Second
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultRefreshTokenTTL * time.Second
}

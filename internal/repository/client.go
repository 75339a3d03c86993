// Package repository 数据访问层
package repository

import (
	"context"
	"errors"

	"github.com/pu-ac-cn/auth-center/internal/model"
	"gorm.io/gorm"
)

var (
	ErrClientNotFound = errors.New("客户端不存在")
	ErrClientExists   = errors.New("客户端已存在")
)

// ClientRepository 客户端仓库接口
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByClientID(ctx context.Context, clientID string) (*model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, clientID string) error
	List(ctx context.Context) ([]*model.Client, error)
}

// clientRepository 客户端仓库实现
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建客户端仓库
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	var count int64
	r.db.WithContext(ctx).Model(&model.Client{}).
		Where("client_id = ?", client.ClientID).Count(&count)
	if count > 0 {
		return ErrClientExists
	}
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByClientID(ctx context.Context, clientID string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepository) Delete(ctx context.Context, clientID string) error {
	return r.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&model.Client{}).Error
}

func (r *clientRepository) List(ctx context.Context) ([]*model.Client, error) {
	var clients []*model.Client
	err := r.db.WithContext(ctx).Order("created_at").Find(&clients).Error
	return clients, err
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/repository"
	"github.com/pu-ac-cn/auth-center/internal/security"
)

// ClientService 客户端注册表接口
// 签发令牌时按 client_id 解析签发配置（访问/刷新令牌有效期）。
// 结果带短 TTL 进程内缓存；缓存过期造成的短暂陈旧只影响新签发的令牌，
// 不影响已发放的会话。
type ClientService interface {
	// LoadByClientID 按客户端 ID 加载配置，未注册或已禁用时返回 ErrUnknownClient
	LoadByClientID(ctx context.Context, clientID string) (*model.Client, error)
}

type cachedClient struct {
	client   *model.Client
	loadedAt time.Time
}

type clientService struct {
	repo     repository.ClientRepository
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cachedClient
}

// NewClientService 创建客户端注册表服务
func NewClientService(repo repository.ClientRepository, cacheTTL time.Duration) ClientService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &clientService{
		repo:     repo,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cachedClient),
	}
}

// LoadByClientID 按客户端 ID 加载配置
func (s *clientService) LoadByClientID(ctx context.Context, clientID string) (*model.Client, error) {
	if clientID == "" {
		return nil, security.ErrUnknownClient
	}

	s.mu.RLock()
	entry, hit := s.cache[clientID]
	s.mu.RUnlock()
	if hit && time.Since(entry.loadedAt) < s.cacheTTL {
		return entry.client, nil
	}

	client, err := s.repo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, security.ErrUnknownClient
		}
		return nil, err
	}
	if !client.IsActive() {
		return nil, security.ErrUnknownClient
	}

	s.mu.Lock()
	s.cache[clientID] = cachedClient{client: client, loadedAt: time.Now()}
	s.mu.Unlock()

	return client, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pu-ac-cn/auth-center/internal/model"
	"github.com/pu-ac-cn/auth-center/internal/security"
	"github.com/redis/go-redis/v9"
)

// SessionService 会话存储服务接口
// 权威会话状态保存在共享 Redis 中，所有服务实例看到同一份数据，
// 因此单实例注销对整个集群立即生效。"会话不存在"与"存储不可用"
// 是两类必须区分的结果：前者表示未登录，后者表示后端故障。
type SessionService interface {
	// Put 写入会话记录并设置 TTL
	Put(ctx context.Context, record *model.SessionRecord, ttl time.Duration) error
	// Get 读取会话记录；不存在时返回 ErrSessionExpired，后端故障时返回 ErrSessionStoreUnavailable
	Get(ctx context.Context, sessionID string) (*model.SessionRecord, error)
	// Remove 删除一个或多个会话（注销即驱逐）
	Remove(ctx context.Context, sessionIDs ...string) error
	// Refresh 延长会话 TTL，会话不存在时返回 ErrSessionExpired
	Refresh(ctx context.Context, sessionID string, ttl time.Duration) error
}

// SessionServiceConfig 会话存储配置
type SessionServiceConfig struct {
	CachePrefix string        // 缓存键前缀，默认 login_tokens:
	OpTimeout   time.Duration // 单次存储操作超时，默认 2s
}

type sessionService struct {
	redis  *redis.Client
	prefix string
	// 每次存储操作的超时上限，超时视为存储不可用而非会话不存在
	opTimeout time.Duration
}

// NewSessionService 创建会话存储服务
func NewSessionService(redisClient *redis.Client, config *SessionServiceConfig) SessionService {
	if config == nil {
		config = &SessionServiceConfig{}
	}
	if config.CachePrefix == "" {
		config.CachePrefix = security.DefaultCachePrefix
	}
	if config.OpTimeout == 0 {
		config.OpTimeout = 2 * time.Second
	}
	return &sessionService{
		redis:     redisClient,
		prefix:    config.CachePrefix,
		opTimeout: config.OpTimeout,
	}
}

// key 拼接缓存键：<前缀><sessionId>
func (s *sessionService) key(sessionID string) string {
	return s.prefix + sessionID
}

// Put 写入会话记录
func (s *sessionService) Put(ctx context.Context, record *model.SessionRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.redis.Set(ctx, s.key(record.SessionID), data, ttl).Err(); err != nil {
		return security.ErrSessionStoreUnavailable.WithCause(err)
	}
	return nil
}

// Get 读取会话记录
func (s *sessionService) Get(ctx context.Context, sessionID string) (*model.SessionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// 键不存在：会话已注销或已自然过期
			return nil, security.ErrSessionExpired
		}
		return nil, security.ErrSessionStoreUnavailable.WithCause(err)
	}

	var record model.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, security.ErrSessionStoreUnavailable.WithCause(err)
	}

	return &record, nil
}

// Remove 删除会话
func (s *sessionService) Remove(ctx context.Context, sessionIDs ...string) error {
	if len(sessionIDs) == 0 {
		return nil
	}

	keys := make([]string, len(sessionIDs))
	for i, id := range sessionIDs {
		keys[i] = s.key(id)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return security.ErrSessionStoreUnavailable.WithCause(err)
	}
	return nil
}

// Refresh 延长会话 TTL
func (s *sessionService) Refresh(ctx context.Context, sessionID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	ok, err := s.redis.Expire(ctx, s.key(sessionID), ttl).Result()
	if err != nil {
		return security.ErrSessionStoreUnavailable.WithCause(err)
	}
	if !ok {
		return security.ErrSessionExpired
	}
	return nil
}

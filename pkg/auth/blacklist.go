package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist 令牌黑名单接口
type TokenBlacklist interface {
	// AddToBlacklist 将令牌加入黑名单，到期后自动移除
	AddToBlacklist(token string, expireAt time.Time)
	// IsBlacklisted 判断令牌是否已被撤销
	IsBlacklisted(token string) bool
}

var (
	blacklist   TokenBlacklist
	blacklistMu sync.RWMutex
)

// GetTokenBlacklist 获取黑名单实例，未配置时回退到内存实现
func GetTokenBlacklist() TokenBlacklist {
	blacklistMu.RLock()
	if blacklist != nil {
		defer blacklistMu.RUnlock()
		return blacklist
	}
	blacklistMu.RUnlock()

	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return blacklist
}

// UseRedisBlacklist 切换到Redis黑名单，服务多实例部署时使用
func UseRedisBlacklist(client *redis.Client) {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	blacklist = &redisBlacklist{client: client}
}

// memoryBlacklist 内存黑名单实现
type memoryBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

// NewMemoryBlacklist 创建内存黑名单
func NewMemoryBlacklist() TokenBlacklist {
	return &memoryBlacklist{tokens: make(map[string]time.Time)}
}

func (b *memoryBlacklist) AddToBlacklist(token string, expireAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expireAt

	// 顺带清理已过期条目
	now := time.Now()
	for t, exp := range b.tokens {
		if exp.Before(now) {
			delete(b.tokens, t)
		}
	}
}

func (b *memoryBlacklist) IsBlacklisted(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	exp, ok := b.tokens[token]
	if !ok {
		return false
	}
	return exp.After(time.Now())
}

// redisBlacklist Redis黑名单实现，键按令牌剩余有效期过期
type redisBlacklist struct {
	client *redis.Client
}

const blacklistKeyPrefix = "auth:blacklist:"

func (b *redisBlacklist) AddToBlacklist(token string, expireAt time.Time) {
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	b.client.Set(ctx, blacklistKeyPrefix+token, 1, ttl)
}

func (b *redisBlacklist) IsBlacklisted(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		// Redis不可用时放行，令牌本身仍受签名与过期时间约束
		return false
	}
	return n > 0
}

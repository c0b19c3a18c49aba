package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/logger"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// InitRedis 初始化Redis客户端
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %v", err)
	}

	logger.Info("Redis连接成功")
	return client, nil
}

// GetRedis 获取Redis客户端实例
func GetRedis() *redis.Client {
	var err error
	redisOnce.Do(func() {
		redisClient, err = InitRedis(&config.GlobalConfig.Redis)
		if err != nil {
			panic(fmt.Sprintf("Redis初始化失败: %v", err))
		}
	})
	return redisClient
}

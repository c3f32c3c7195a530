package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("缓存未命中")

// Redis 键值存储适配器：文件MD5去重集合与看板缓存
type Redis struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端并验证连通性
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败 (%s): %w", cfg.Address, err)
	}

	return &Redis{client: client, cfg: cfg}, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping 检查Redis连通性
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// CheckAndAddRawFileMD5 原子地检查并登记文件MD5。
// 返回true表示MD5已存在（重复上传），false表示本次为首次登记。
func (r *Redis) CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (bool, error) {
	added, err := r.client.SAdd(ctx, constants.KeyFileMD5Set, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("登记文件MD5失败: %w", err)
	}

	// SAdd返回新增元素个数：0表示集合中已有该MD5
	exists := added == 0

	if !exists && r.cfg.MD5RecordExpireDays > 0 {
		expire := time.Duration(r.cfg.MD5RecordExpireDays) * 24 * time.Hour
		if err := r.client.Expire(ctx, constants.KeyFileMD5Set, expire).Err(); err != nil {
			log.Warn().Err(err).Msg("设置MD5集合过期时间失败")
		}
	}
	return exists, nil
}

// RemoveRawFileMD5 撤销MD5登记，用于上传后续步骤失败时回滚
func (r *Redis) RemoveRawFileMD5(ctx context.Context, md5Hex string) error {
	return r.client.SRem(ctx, constants.KeyFileMD5Set, md5Hex).Err()
}

// GetDashboardCache 读取用户看板统计缓存
func (r *Redis) GetDashboardCache(ctx context.Context, userID string) (string, error) {
	key := fmt.Sprintf(constants.KeyUserDashboard, userID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("读取看板缓存失败: %w", err)
	}
	return val, nil
}

// SetDashboardCache 写入用户看板统计缓存
func (r *Redis) SetDashboardCache(ctx context.Context, userID string, payload string) error {
	key := fmt.Sprintf(constants.KeyUserDashboard, userID)
	ttl := time.Duration(r.cfg.DashboardCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.Set(ctx, key, payload, ttl).Err()
}

// InvalidateDashboardCache 分析完成后使看板缓存失效
func (r *Redis) InvalidateDashboardCache(ctx context.Context, userID string) error {
	key := fmt.Sprintf(constants.KeyUserDashboard, userID)
	return r.client.Del(ctx, key).Err()
}

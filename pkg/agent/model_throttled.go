package agent

import (
	"context"

	"resume-analyzer-go/pkg/ratelimit"
)

// Generator 聊天补全的最小接口
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// ThrottledChatModel 在调用底层模型前等待令牌，避免触发API侧限流
type ThrottledChatModel struct {
	inner  Generator
	bucket *ratelimit.TokenBucket
}

// NewThrottledChatModel 用每分钟请求数rpm包装底层模型
func NewThrottledChatModel(inner Generator, rpm int) *ThrottledChatModel {
	return &ThrottledChatModel{
		inner:  inner,
		bucket: ratelimit.NewTokenBucket(rpm, 0),
	}
}

// Generate 等待令牌后委托给底层模型
func (m *ThrottledChatModel) Generate(ctx context.Context, messages []Message) (string, error) {
	if err := m.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return m.inner.Generate(ctx, messages)
}

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketAllow(t *testing.T) {
	// 低速率使补充期间不会产生可观测的新令牌
	tb := NewTokenBucket(1, 2)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "桶耗尽后应拒绝请求")
}

func TestTokenBucketDefaultCapacity(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.InDelta(t, 5.0, tb.capacity, 0.001, "未指定容量时取rpm的一半")

	tb = NewTokenBucket(1, 0)
	assert.InDelta(t, 1.0, tb.capacity, 0.001, "容量至少为1")
}

func TestTokenBucketWaitContextCanceled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTokenBucketWaitReturnsWhenAvailable(t *testing.T) {
	tb := NewTokenBucket(6000, 1) // 每秒100个令牌，等待时间可忽略
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, tb.Wait(ctx))
}

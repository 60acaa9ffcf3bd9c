package testutil

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	DelFunc        func(ctx context.Context, key ...string) error
	SetObjFunc     func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc     func(ctx context.Context, key string, v any) error
	PublishFunc    func(ctx context.Context, channel string, msg []byte) error
	PSubscribeFunc func(ctx context.Context, patterns ...string) *redis.PubSub
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return redis.Nil
}

func (m *MockRedisClient) Publish(ctx context.Context, channel string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, channel, msg)
	}

	return nil
}

func (m *MockRedisClient) PSubscribe(ctx context.Context, patterns ...string) *redis.PubSub {
	if m.PSubscribeFunc != nil {
		return m.PSubscribeFunc(ctx, patterns...)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/questx-lab/harmony/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

const profileCacheTTL = 10 * time.Minute

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
}

type profileRepository struct {
	redisClient xredis.Client
}

// NewProfileRepository caches profiles looked up by user id in redis. A nil client disables the
// cache.
func NewProfileRepository(redisClient xredis.Client) *profileRepository {
	return &profileRepository{redisClient: redisClient}
}

func (r *profileRepository) cacheKeyByUserID(userID string) string {
	return fmt.Sprintf("cache:profile:user:%s", userID)
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	return xcontext.DB(ctx).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	var result entity.Profile
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	if r.redisClient != nil {
		var cached entity.Profile
		err := r.redisClient.GetObj(ctx, r.cacheKeyByUserID(userID), &cached)
		if err == nil {
			return &cached, nil
		}

		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get profile from redis: %v", err)
		}
	}

	var result entity.Profile
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		err := r.redisClient.SetObj(ctx, r.cacheKeyByUserID(userID), result, profileCacheTTL)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot set profile to redis: %v", err)
		}
	}

	return &result, nil
}

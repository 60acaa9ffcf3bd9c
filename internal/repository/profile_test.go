package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/questx-lab/harmony/internal/entity"
	"github.com/questx-lab/harmony/internal/repository"
	"github.com/questx-lab/harmony/pkg/testutil"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func Test_profileRepository_GetByUserID_Cache(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	cache := map[string][]byte{}
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(_ context.Context, key string, obj any, ttl time.Duration) error {
			require.Positive(t, ttl)
			b, err := json.Marshal(obj)
			if err != nil {
				return err
			}

			cache[key] = b
			return nil
		},
		GetObjFunc: func(_ context.Context, key string, v any) error {
			b, ok := cache[key]
			if !ok {
				return redis.Nil
			}

			return json.Unmarshal(b, v)
		},
	}

	repo := repository.NewProfileRepository(redisClient)
	profile, err := repo.GetByUserID(ctx, testutil.Profile2.UserID)
	require.NoError(t, err)
	require.Equal(t, testutil.Profile2.ID, profile.ID)
	require.Contains(t, cache, "cache:profile:user:"+testutil.Profile2.UserID)

	// Remove the row, the cached profile is still served.
	require.NoError(t, xcontext.DB(ctx).Delete(&entity.Profile{}, "id=?", testutil.Profile2.ID).Error)
	profile, err = repo.GetByUserID(ctx, testutil.Profile2.UserID)
	require.NoError(t, err)
	require.Equal(t, testutil.Profile2.Name, profile.Name)

	_, err = repo.GetByUserID(ctx, "unknown")
	require.Error(t, err)
	require.Len(t, cache, 1)
}

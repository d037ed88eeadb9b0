package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const UserSummaryRedisKeyPrefix = "users:compact:"

// UsersCache keeps user summaries in Redis, one key per user.
type UsersCache struct {
	redisClient *redis.Client
	expiration  time.Duration
}

func NewUsersCache(redisClient *redis.Client, expiration time.Duration) *UsersCache {
	return &UsersCache{
		redisClient: redisClient,
		expiration:  expiration,
	}
}

func userKey(id uint) string {
	return UserSummaryRedisKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

// GetUsers returns the cached summaries among ids. Misses and decode
// failures are simply absent from the result.
func (c *UsersCache) GetUsers(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	found := make(map[uint]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	values, err := c.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return found, fmt.Errorf("mget user summaries: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var user models.UserCompact
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			log.Errorf("Error unmarshalling user %d: %s", ids[i], err)
			continue
		}
		found[ids[i]] = user
	}
	return found, nil
}

// SetUsers stores users with the cache expiration.
func (c *UsersCache) SetUsers(ctx context.Context, users []models.UserCompact) error {
	if len(users) == 0 {
		return nil
	}
	pipe := c.redisClient.Pipeline()
	for _, user := range users {
		bytes, err := json.Marshal(user)
		if err != nil {
			return err
		}
		pipe.Set(ctx, userKey(user.ID), bytes, c.expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// DeleteUser drops a stale summary, for example after a rename.
func (c *UsersCache) DeleteUser(ctx context.Context, id uint) error {
	return c.redisClient.Del(ctx, userKey(id)).Err()
}

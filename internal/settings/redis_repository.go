package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisPreferenceRepository implements PreferenceRepository on Redis with one
// JSON value per user key.
type redisPreferenceRepository struct {
	rdb *redis.Client
}

// NewRedisPreferenceRepository creates a Redis-backed PreferenceRepository.
func NewRedisPreferenceRepository(rdb *redis.Client) PreferenceRepository {
	return &redisPreferenceRepository{rdb: rdb}
}

func prefsKey(userID string) string {
	return "prefs:" + userID
}

func (r *redisPreferenceRepository) Get(ctx context.Context, userID string) (Preferences, error) {
	data, err := r.rdb.Get(ctx, prefsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return DefaultPreferences(), nil
		}
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (r *redisPreferenceRepository) Put(ctx context.Context, userID string, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := r.rdb.Set(ctx, prefsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("put preferences: %w", err)
	}
	return nil
}

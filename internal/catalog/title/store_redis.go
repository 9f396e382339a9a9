package title

import (
	stdctx "context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/revio/internal/platform/constants"
)

// noRatingSentinel marks a cached "title has no reviews" answer, so an
// unreviewed title does not hammer Postgres on every read.
const noRatingSentinel = "none"

// RedisRatingCache caches aggregate title ratings in Redis.
//
// Cache trouble is never an error to callers: a broken cache degrades to
// recomputation, and every entry expires on its own TTL so a lost
// invalidation heals itself.
type RedisRatingCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisRatingCache constructs a [RedisRatingCache].
func NewRedisRatingCache(client *redis.Client, logger *slog.Logger) *RedisRatingCache {
	return &RedisRatingCache{client: client, logger: logger}
}

// Get implements [RatingCache].
func (cache *RedisRatingCache) Get(context stdctx.Context, titleID int64) (*float64, bool) {
	raw, err := cache.client.Get(context, ratingKey(titleID)).Result()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("rating_cache_get_failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	if raw == noRatingSentinel {
		return nil, true
	}

	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Corrupt entry: drop it and fall through to recomputation.
		cache.Invalidate(context, titleID)
		return nil, false
	}

	return &rating, true
}

// Set implements [RatingCache].
func (cache *RedisRatingCache) Set(context stdctx.Context, titleID int64, rating *float64) {
	value := noRatingSentinel
	if rating != nil {
		value = strconv.FormatFloat(*rating, 'f', -1, 64)
	}

	if err := cache.client.Set(context, ratingKey(titleID), value, constants.TitleRatingCacheTTL).Err(); err != nil {
		cache.logger.Warn("rating_cache_set_failed", slog.String("error", err.Error()))
	}
}

// Invalidate implements [RatingCache].
func (cache *RedisRatingCache) Invalidate(context stdctx.Context, titleID int64) {
	if err := cache.client.Del(context, ratingKey(titleID)).Err(); err != nil {
		cache.logger.Warn("rating_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}

func ratingKey(titleID int64) string {
	return constants.RedisPrefixTitleRating + strconv.FormatInt(titleID, 10)
}

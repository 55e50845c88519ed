package services

import (
	"context"
	"encoding/json"
	"fmt"

	"schooladmin/database"
	"schooladmin/models"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// LogFlushService drains cached activity logs from Redis into the
// database. Log writes go to Redis first so request handlers never wait
// on an audit insert.
type LogFlushService struct {
	redisClient *redis.Client
}

func NewLogFlushService() *LogFlushService {
	return &LogFlushService{redisClient: database.GetRedisClient()}
}

// FlushCachedLogs moves every queued log entry from Redis to the
// database. Entries that fail to decode or insert are counted and left
// out of the queue removal so nothing is silently lost twice.
func (lfs *LogFlushService) FlushCachedLogs() error {
	if lfs.redisClient == nil {
		return fmt.Errorf("redis client not available")
	}

	ctx := context.Background()

	keys, err := lfs.redisClient.ZRangeByScore(ctx, "logs:queue", &redis.ZRangeBy{
		Min: "0",
		Max: "+inf",
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read log queue: %v", err)
	}
	if len(keys) == 0 {
		return nil
	}

	var processedCount int
	var errorCount int

	for _, logKey := range keys {
		logData, err := lfs.redisClient.Get(ctx, logKey).Result()
		if err != nil {
			if err != redis.Nil {
				logrus.WithError(err).Errorf("Failed to get log data for key: %s", logKey)
				errorCount++
				continue
			}
			// Value expired before the flush ran; drop the queue entry.
			lfs.redisClient.ZRem(ctx, "logs:queue", logKey)
			continue
		}

		var activityLog models.ActivityLog
		if err := json.Unmarshal([]byte(logData), &activityLog); err != nil {
			logrus.WithError(err).Errorf("Failed to unmarshal log data for key: %s", logKey)
			errorCount++
			continue
		}

		if err := database.DB.Create(&activityLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to save cached log to database")
			errorCount++
			continue
		}

		pipeline := lfs.redisClient.Pipeline()
		pipeline.Del(ctx, logKey)
		pipeline.ZRem(ctx, "logs:queue", logKey)
		if _, err := pipeline.Exec(ctx); err != nil {
			logrus.WithError(err).Errorf("Failed to remove log from cache: %s", logKey)
		}

		processedCount++
	}

	logrus.Infof("Flushed %d logs to database, %d errors", processedCount, errorCount)
	return nil
}

package cron

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"estate_portal/pkg/logger"
)

// Purger removes stale upload staging directories.
type Purger interface {
	PurgeStale(maxAge time.Duration) (int, error)
}

// StagingCleanupSchedule runs every hour at minute 15.
const StagingCleanupSchedule = "15 * * * *"

var mutex sync.Mutex

// InitStagingCleanupCron schedules the staging purge and returns the started scheduler so
// the caller can stop it on shutdown.
func InitStagingCleanupCron(p Purger, maxAge time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(StagingCleanupSchedule, func() {
		PurgeStaging(p, maxAge)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// PurgeStaging runs one purge. Overlapping runs are skipped.
func PurgeStaging(p Purger, maxAge time.Duration) int {
	if !mutex.TryLock() {
		logger.GetLogger().Debug("Staging cleanup already running, skipping")
		return 0
	}
	defer mutex.Unlock()

	removed, err := p.PurgeStale(maxAge)
	if err != nil {
		logger.GetLogger().Error("Staging cleanup failed", zap.Error(err), zap.Int("removed", removed))
		return removed
	}
	if removed > 0 {
		logger.GetLogger().Info("Stale staging directories removed", zap.Int("removed", removed))
	}
	return removed
}

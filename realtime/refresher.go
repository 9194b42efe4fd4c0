package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/config"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
)

const refreshLockTTL = 30 * time.Second

var ErrRefreshInProgress = errors.New("dashboard refresh already in progress")

type DataSource interface {
	LoadRawData(ctx context.Context, businessId string) (models.RawData, error)
}

// Refresher loads a business's records and feeds them to the publisher. With a lock
// client, concurrent refreshes across instances are rejected instead of interleaved.
type Refresher struct {
	publisher *Publisher
	source    DataSource
	locker    *redislock.Client
	cache     *SnapshotCache
}

func NewRefresher(publisher *Publisher, source DataSource, locker *redislock.Client) *Refresher {
	return &Refresher{publisher: publisher, source: source, locker: locker}
}

// EvictOnFailure makes a failed load drop cache's snapshot. The in-process publisher keeps
// serving its last snapshot, whose generated_at shows its age.
func (r *Refresher) EvictOnFailure(cache *SnapshotCache) *Refresher {
	r.cache = cache
	return r
}

func (r *Refresher) Refresh(ctx context.Context, businessId string) (reports.MetricsSnapshot, error) {
	if r.source == nil {
		return reports.MetricsSnapshot{}, errors.New("data source not configured")
	}
	if businessId == "" {
		return reports.MetricsSnapshot{}, errors.New("business id is required")
	}

	if r.locker != nil {
		lock, err := r.locker.Obtain(ctx, fmt.Sprintf("dashboard-refresh:%s", businessId), refreshLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return reports.MetricsSnapshot{}, ErrRefreshInProgress
		} else if err != nil {
			config.LogError(r.publisher.logger, "Realtime", "Refresh", "Error obtaining refresh lock", businessId, err)
			return reports.MetricsSnapshot{}, err
		}
		defer func() {
			_ = lock.Release(ctx)
		}()
	}

	raw, err := r.source.LoadRawData(ctx, businessId)
	if err != nil {
		config.LogError(r.publisher.logger, "Realtime", "Refresh", "Error loading raw data", businessId, err)
		if r.cache != nil {
			if evictErr := r.cache.Evict(ctx); evictErr != nil {
				config.LogError(r.publisher.logger, "Realtime", "Refresh", "Error evicting cached snapshot", businessId, evictErr)
			}
		}
		return reports.MetricsSnapshot{}, err
	}
	return r.publisher.UpdateData(ctx, raw), nil
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/invoice-dashboard/internal/invoices"
	jobmetrics "github.com/odyssey-erp/invoice-dashboard/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ListingPager loads a listing page through the path cache.
type ListingPager interface {
	Page(ctx context.Context, n int) (invoices.Listing, error)
}

// CacheWarmupJob refills the first pages of the invoices listing so the
// request after an invalidation is served from cache.
type CacheWarmupJob struct {
	Listing ListingPager
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCacheWarmupJob wires dependencies for the warmup handler.
func NewCacheWarmupJob(listing ListingPager, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheWarmupJob {
	return &CacheWarmupJob{Listing: listing, Logger: logger, Metrics: metrics}
}

// Handle processes cache warmup tasks. Paths without a shared rendering,
// such as per-user todo lists, are skipped.
func (j *CacheWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Listing == nil {
		return errors.New("cache warmup: handler not configured")
	}
	var payload CacheWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Path == "" {
		payload.Path = invoices.ListingPath
	}
	if payload.Pages <= 0 {
		payload.Pages = 1
	}

	logger := j.logger().With(slog.String("path", payload.Path))
	if payload.Path != invoices.ListingPath {
		logger.Debug("no warmup for path")
		return nil
	}

	tracker := j.metrics().Track(TaskCacheWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := time.Now()
	warmed := 0
	for n := 1; n <= payload.Pages; n++ {
		listing, err := j.Listing.Page(ctx, n)
		if err != nil {
			logger.Error("warm listing page", slog.Int("page", n), slog.Any("error", err))
			return err
		}
		warmed++
		if !listing.Pagination.HasNext() {
			break
		}
	}
	j.metrics().AddWarmed(payload.Path, warmed)
	logger.Info("completed cache warmup", slog.Int("pages", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CacheWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCacheWarmup))
	}
	return slog.Default().With(slog.String("job", TaskCacheWarmup))
}

func (j *CacheWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

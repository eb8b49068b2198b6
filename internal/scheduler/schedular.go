package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron expressions for the three periodic sync cycles. The station registry
// refreshes daily, snapshot data every five minutes, scrape targets every
// four hours.
const (
	stationSyncSpec = "0 0 * * *"
	dataSyncSpec    = "*/5 * * * *"
	scrapeSyncSpec  = "0 */4 * * *"
)

type CollectorJobs interface {
	SyncStations(ctx context.Context) error
	SyncStationData(ctx context.Context) error
}

type ScraperJob interface {
	SyncAll(ctx context.Context) error
}

// Scheduler drives the periodic sync cycles. Each job carries its own
// in-flight flag: a tick that finds the previous run still going is skipped
// rather than overlapped, so a slow upstream cannot stack concurrent syncs.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(collector CollectorJobs, scraper ScraperJob, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}

	if err := s.addJob("station-sync", stationSyncSpec, collector.SyncStations); err != nil {
		return nil, err
	}
	if err := s.addJob("data-sync", dataSyncSpec, collector.SyncStationData); err != nil {
		return nil, err
	}
	if err := s.addJob("scrape-sync", scrapeSyncSpec, scraper.SyncAll); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) addJob(name, spec string, run func(ctx context.Context) error) error {
	var inFlight atomic.Bool

	_, err := s.cron.AddFunc(spec, func() {
		if !inFlight.CompareAndSwap(false, true) {
			s.logger.Warn("Previous run still in progress, skipping tick",
				zap.String("job", name))
			return
		}
		defer inFlight.Store(false)

		startTime := time.Now()
		s.logger.Info("Scheduled job starting", zap.String("job", name))

		if err := run(context.Background()); err != nil {
			s.logger.Error("Scheduled job failed",
				zap.String("job", name),
				zap.Duration("duration", time.Since(startTime)),
				zap.Error(err))
			return
		}
		s.logger.Info("Scheduled job completed",
			zap.String("job", name),
			zap.Duration("duration", time.Since(startTime)))
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started",
		zap.String("station_sync", stationSyncSpec),
		zap.String("data_sync", dataSyncSpec),
		zap.String("scrape_sync", scrapeSyncSpec))
}

// Stop waits for any job in flight to finish before returning.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

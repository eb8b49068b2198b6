package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopCollector struct{}

func (noopCollector) SyncStations(ctx context.Context) error    { return nil }
func (noopCollector) SyncStationData(ctx context.Context) error { return nil }

type noopScraper struct{}

func (noopScraper) SyncAll(ctx context.Context) error { return nil }

func TestNewSchedulerRegistersJobs(t *testing.T) {
	s, err := NewScheduler(noopCollector{}, noopScraper{}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, s)

	// All three cron expressions must parse.
	assert.Len(t, s.cron.Entries(), 3)

	s.Start()
	s.Stop()
}

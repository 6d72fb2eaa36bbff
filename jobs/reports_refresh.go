package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerline/ledgerline/internal/reports"
)

// ReportsRefreshJob recomputes the cached report snapshots.
type ReportsRefreshJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
}

// NewReportsRefreshJob wires dependencies for the refresh handler.
func NewReportsRefreshJob(reportsSvc *reports.Service, logger *slog.Logger) *ReportsRefreshJob {
	return &ReportsRefreshJob{Reports: reportsSvc, Logger: logger}
}

// Handle processes reports:refresh tasks.
func (j *ReportsRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports refresh: handler not configured")
	}
	var payload ReportsRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	started := time.Now()
	if err := j.Reports.Refresh(ctx); err != nil {
		j.logger().Error("refresh report snapshots", slog.Any("error", err))
		return err
	}
	j.logger().Info("report snapshots refreshed",
		slog.Duration("took", time.Since(started)),
		slog.Time("requested_at", payload.RequestedAt))
	return nil
}

func (j *ReportsRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

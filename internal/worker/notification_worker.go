package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vwgov/hr-signals/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartRiskReportRefresher periodically recomputes the risk report so the
// cached copy stays warm between operator requests. Returns immediately; the
// refresh loop stops when ctx is cancelled.
func StartRiskReportRefresher(ctx context.Context, insights *service.InsightsService, interval time.Duration, snapshotLimit int, logger *zap.Logger) {
	if insights == nil || interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := insights.RiskReport(ctx, snapshotLimit); err != nil {
					logger.Warn("risk report refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

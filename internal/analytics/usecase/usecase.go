package usecase

import (
	"context"

	"planora-backend/internal/analytics/domain"
	taskdomain "planora-backend/internal/task/domain"
	taskrepo "planora-backend/internal/task/repository"
	"planora-backend/pkg/feed"
)

// MetricsUsecase computes period-over-period task statistics for one user.
type MetricsUsecase interface {
	// Fetch performs a one-shot aggregation over the user's current tasks.
	// A retrieval failure propagates to the caller.
	Fetch(userID string, periodDays int) (*domain.Metrics, error)

	// Watch emits a freshly computed result immediately and then again on
	// every change to the user's task collection. A retrieval failure on the
	// initial snapshot is swallowed into a zeroed result with Err set.
	// Cancelling the subscription is idempotent and stops all emissions.
	Watch(ctx context.Context, userID string, periodDays int) (*feed.Subscription[*domain.Metrics], error)
}

// TaskSource is the slice of the task repository the metrics engine reads.
type TaskSource interface {
	FindByUserID(userID string, opts taskrepo.ListOptions) ([]*taskdomain.Task, int64, error)
}

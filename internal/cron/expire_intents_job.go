package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/jmfarina/payments-backend/pkg/logger"
	"github.com/jmfarina/payments-backend/pkg/metrics"
)

// intentExpirer is the slice of the intents service the job needs.
type intentExpirer interface {
	ExpirePending(ctx context.Context, now time.Time) (int, error)
}

// ExpireIntentsJobParams configure the payment intent expiration job.
type ExpireIntentsJobParams struct {
	Logger  *logger.Logger
	Intents intentExpirer
	Metrics *metrics.CronJobMetrics
}

// NewExpireIntentsJob builds the job that moves past-due pending intents to
// expired.
func NewExpireIntentsJob(params ExpireIntentsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Intents == nil {
		return nil, fmt.Errorf("intents service required")
	}
	return &expireIntentsJob{
		logg:    params.Logger,
		intents: params.Intents,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type expireIntentsJob struct {
	logg    *logger.Logger
	intents intentExpirer
	metrics *metrics.CronJobMetrics
	now     func() time.Time
}

func (j *expireIntentsJob) Name() string { return "expire-payment-intents" }

func (j *expireIntentsJob) Run(ctx context.Context) error {
	count, err := j.intents.ExpirePending(ctx, j.now().UTC())
	if count > 0 {
		if j.metrics != nil {
			j.metrics.AddExpired(j.Name(), count)
		}
		logCtx := j.logg.WithField(ctx, "count", count)
		j.logg.Info(logCtx, "payment intents expired")
	}
	if err != nil {
		return fmt.Errorf("expire pending intents: %w", err)
	}
	return nil
}

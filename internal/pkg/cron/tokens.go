package cron

import (
	"context"
	"log/slog"
	"time"
)

// TokenPurger drops revocation entries of tokens that have expired anyway.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// TokenJobs contains the access token maintenance jobs.
type TokenJobs struct {
	purger   TokenPurger
	interval time.Duration
}

func NewTokenJobs(purger TokenPurger, interval time.Duration) *TokenJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenJobs{purger: purger, interval: interval}
}

// RegisterJobs registers the token jobs on scheduler.
func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     "purge_revoked_tokens",
		Interval: j.interval,
		Timeout:  time.Minute,
		Fn:       j.PurgeRevokedTokens,
	})
}

// PurgeRevokedTokens removes revocations whose tokens are past expiry.
func (j *TokenJobs) PurgeRevokedTokens(ctx context.Context) error {
	purged, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if purged > 0 {
		slog.Info("Purged expired token revocations", "count", purged)
	}
	return nil
}

package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
)

// TokenJobs removes refresh tokens that can no longer be used.
type TokenJobs struct {
	refreshTokenRepo auth.RefreshTokenRepository
}

func NewTokenJobs(refreshTokenRepo auth.RefreshTokenRepository) *TokenJobs {
	return &TokenJobs{refreshTokenRepo: refreshTokenRepo}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_refresh_tokens", 6*time.Hour, j.PurgeExpiredRefreshTokens)
}

func (j *TokenJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.refreshTokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to purge refresh tokens: %w", err)
	}
	slog.Info("Cron: Purged expired refresh tokens", "count", deleted)
	return nil
}

package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/domain"
)

// FailoverThrottle prefers the primary (redis) and falls back to the
// in-memory throttle while the primary is down, retrying it after a
// minute.
type FailoverThrottle struct {
	primary   domain.Throttle
	fallback  domain.Throttle
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed primary call
}

func NewFailoverThrottle(primary, fallback domain.Throttle, logger *zerolog.Logger) *FailoverThrottle {
	return &FailoverThrottle{primary: primary, fallback: fallback, logger: logger}
}

const primaryRetryAfter = time.Minute

func (f *FailoverThrottle) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !f.isDown.Load() {
		allowed, err := f.primary.Allow(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		f.logger.Error().Err(err).Msg("primary throttle failed, falling back to memory")
		f.isDown.Store(true)
		f.lastCheck.Store(time.Now().UnixNano())
	}

	if f.isDown.Load() && time.Since(time.Unix(0, f.lastCheck.Load())) > primaryRetryAfter {
		allowed, err := f.primary.Allow(ctx, key, limit, window)
		if err == nil {
			f.isDown.Store(false)
			return allowed, nil
		}
		f.lastCheck.Store(time.Now().UnixNano())
	}

	return f.fallback.Allow(ctx, key, limit, window)
}

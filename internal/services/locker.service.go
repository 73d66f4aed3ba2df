package services

import (
	"context"
	"errors"
	"recruiter/internal/database"
	"recruiter/internal/logger"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// ErrCandidateBusy means another scoring pass currently holds the candidate.
var ErrCandidateBusy = errors.New("candidate is locked by another pass")

// CandidateLocker serializes scoring passes over the same candidate.
// Passes over different candidates proceed in parallel.
type CandidateLocker interface {
	WithLock(ctx context.Context, candidateID string, fn func(ctx context.Context) error) error
}

// ValkeyLocker implements the per-candidate advisory lock with SET NX PX.
// The lock value is unique per acquisition so a slow pass cannot release a
// lock a later pass re-acquired after expiry.
type ValkeyLocker struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger
}

func NewValkeyLocker(cache database.CacheClient, ttl time.Duration) *ValkeyLocker {
	return &ValkeyLocker{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("ValkeyLocker"),
	}
}

func (l *ValkeyLocker) WithLock(ctx context.Context, candidateID string, fn func(ctx context.Context) error) error {
	log := l.log.Function("WithLock")

	key := "lock:candidate:" + candidateID
	owner := uuid.NewString()

	resp := l.cache.Do(ctx, l.cache.B().Set().Key(key).Value(owner).Nx().Px(l.ttl).Build())
	if err := resp.Error(); err != nil {
		// SET NX replies nil when the key already exists.
		if valkey.IsValkeyNil(err) {
			return ErrCandidateBusy
		}
		return log.Err("failed to acquire candidate lock", err, "candidateID", candidateID)
	}

	defer func() {
		current, err := l.cache.Do(context.Background(), l.cache.B().Get().Key(key).Build()).ToString()
		if err != nil || current != owner {
			return
		}
		if err := l.cache.Do(context.Background(), l.cache.B().Del().Key(key).Build()).Error(); err != nil {
			log.Er("failed to release candidate lock", err, "candidateID", candidateID)
		}
	}()

	return fn(ctx)
}

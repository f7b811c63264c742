package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormitory-backend/internal/data/repository"
	"dormitory-backend/pkg/utils"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Store runs fn against repositories bound to one transaction. It commits
// when fn returns nil and rolls back otherwise.
type Store interface {
	InTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}

// txRunner executes one operation as a single transaction, bounding each
// attempt by a timeout and retrying storage failures once.
type txRunner struct {
	store   Store
	timeout time.Duration
	backoff time.Duration
	log     *zap.Logger
}

func newTxRunner(store Store, config utils.StorageConfig, log *zap.Logger) *txRunner {
	return &txRunner{
		store:   store,
		timeout: config.Timeout,
		backoff: config.RetryBackoff,
		log:     log,
	}
}

func (r *txRunner) run(ctx context.Context, op string, fn func(tx *repository.Repository) error) error {
	attempt := 0
	backoff := retry.WithMaxRetries(1, retry.NewConstant(r.backoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := r.attempt(ctx, fn)
		if err == nil || IsDomainError(err) {
			return err
		}

		r.log.Warn("Storage attempt failed",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return retry.RetryableError(err)
	})
}

func (r *txRunner) attempt(ctx context.Context, fn func(tx *repository.Repository) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	err := r.store.InTx(ctx, fn)
	if err != nil && !IsDomainError(err) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrStorageTimeout, err)
	}
	return err
}

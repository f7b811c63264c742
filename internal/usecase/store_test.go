package usecase

import (
	"context"
	"testing"
	"time"

	"dormitory-backend/internal/data/repository"
	"dormitory-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubStore calls fn for every transaction and returns its result.
type stubStore struct {
	calls int
	fn    func(ctx context.Context, call int) error
}

func (s *stubStore) InTx(ctx context.Context, _ func(tx *repository.Repository) error) error {
	s.calls++
	return s.fn(ctx, s.calls)
}

func newTestRunner(store Store, timeout time.Duration) *txRunner {
	return newTxRunner(store, utils.StorageConfig{Timeout: timeout, RetryBackoff: time.Millisecond}, zap.NewNop())
}

func noop(*repository.Repository) error { return nil }

func TestTxRunner_RetriesStorageErrorOnce(t *testing.T) {
	store := &stubStore{fn: func(_ context.Context, call int) error {
		if call == 1 {
			return errStorageDown
		}
		return nil
	}}

	err := newTestRunner(store, time.Second).run(context.Background(), "test", noop)

	assert.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}

func TestTxRunner_GivesUpAfterOneRetry(t *testing.T) {
	store := &stubStore{fn: func(context.Context, int) error { return errStorageDown }}

	err := newTestRunner(store, time.Second).run(context.Background(), "test", noop)

	assert.ErrorIs(t, err, errStorageDown)
	assert.Equal(t, 2, store.calls)
}

func TestTxRunner_DomainErrorsAreNotRetried(t *testing.T) {
	store := &stubStore{fn: func(context.Context, int) error { return &OverpaymentError{} }}

	err := newTestRunner(store, time.Second).run(context.Background(), "test", noop)

	assert.ErrorIs(t, err, ErrOverpaymentRejected)
	assert.Equal(t, 1, store.calls)
}

func TestTxRunner_Timeout(t *testing.T) {
	store := &stubStore{fn: func(ctx context.Context, _ int) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	err := newTestRunner(store, 10*time.Millisecond).run(context.Background(), "test", noop)

	assert.ErrorIs(t, err, ErrStorageTimeout)
	assert.Equal(t, 2, store.calls)
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "room_full", rejectionReason(ErrRoomFull))
	assert.Equal(t, "overpayment", rejectionReason(&OverpaymentError{}))
	assert.Equal(t, "other", rejectionReason(ErrBookingNotFound))
	assert.Equal(t, "storage", rejectionReason(errStorageDown))
	assert.False(t, IsDomainError(errStorageDown))
}

package quota

import (
	"sync"
	"sync/atomic"
	"testing"

	"go-rentmart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraft() models.ItemDraft {
	return models.ItemDraft{
		Name:        "Mountain Bike",
		Category:    "sports",
		Price:       150,
		Description: "21-speed mountain bike",
	}
}

func TestEvaluate(t *testing.T) {
	assert.Equal(t, DecisionFree, Evaluate(0))
	assert.Equal(t, DecisionPayment, Evaluate(1))
	assert.Equal(t, DecisionPayment, Evaluate(9))
	assert.Equal(t, DecisionBlocked, Evaluate(10))
	assert.Equal(t, DecisionBlocked, Evaluate(25))
}

func TestSession_FirstListingIsFree(t *testing.T) {
	s := NewSession()

	decision, err := s.Submit(testDraft(), 0)
	require.NoError(t, err)

	assert.Equal(t, DecisionFree, decision)
	// No pending draft is left over; the caller creates the item directly.
	assert.Equal(t, StateIdle, s.State())
	_, held := s.Draft()
	assert.False(t, held)
}

func TestSession_SecondListingAwaitsPayment(t *testing.T) {
	for _, n := range []int{1, 5, 9} {
		s := NewSession()

		decision, err := s.Submit(testDraft(), n)
		require.NoError(t, err)

		assert.Equal(t, DecisionPayment, decision)
		assert.Equal(t, StateAwaitingPayment, s.State())

		draft, held := s.Draft()
		require.True(t, held)
		assert.Equal(t, testDraft(), draft)
	}
}

func TestSession_ConfirmPaymentCreatesExactlyOnce(t *testing.T) {
	s := NewSession()
	_, err := s.Submit(testDraft(), 3)
	require.NoError(t, err)

	draft, err := s.BeginPayment()
	require.NoError(t, err)
	assert.Equal(t, testDraft(), draft)

	s.Complete()
	assert.Equal(t, StateIdle, s.State())

	// A second confirmation has nothing to create.
	_, err = s.BeginPayment()
	assert.ErrorIs(t, err, ErrNoPendingDraft)
}

func TestSession_FailedCreateKeepsDraft(t *testing.T) {
	s := NewSession()
	_, err := s.Submit(testDraft(), 3)
	require.NoError(t, err)

	// Caller's insert fails and rolls the session back. The draft must
	// still be there for another attempt.
	_, err = s.BeginPayment()
	require.NoError(t, err)
	s.Fail()
	assert.Equal(t, StateAwaitingPayment, s.State())

	draft, held := s.Draft()
	require.True(t, held)
	assert.Equal(t, testDraft(), draft)

	// The retry obtains the same draft.
	draft, err = s.BeginPayment()
	require.NoError(t, err)
	assert.Equal(t, testDraft(), draft)
}

func TestSession_SecondConfirmationCannotClaimDraft(t *testing.T) {
	s := NewSession()
	_, err := s.Submit(testDraft(), 3)
	require.NoError(t, err)

	// The first confirmation claims the draft for the insert.
	_, err = s.BeginPayment()
	require.NoError(t, err)
	assert.Equal(t, StateFinalizing, s.State())

	// A second confirmation arriving before the insert finished must not
	// obtain the draft, or the item would be created twice.
	_, err = s.BeginPayment()
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	// Cancellation is likewise refused while the insert is in flight.
	assert.ErrorIs(t, s.Cancel(), ErrSubmissionInProgress)

	s.Complete()
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_HardCapBlocksUntilDeletion(t *testing.T) {
	s := NewSession()

	decision, err := s.Submit(testDraft(), 10)
	require.NoError(t, err)
	assert.Equal(t, DecisionBlocked, decision)
	assert.Equal(t, StateAwaitingQuotaResolution, s.State())

	// Payment is refused while over the cap.
	_, err = s.BeginPayment()
	assert.ErrorIs(t, err, ErrPaymentNotDue)

	// Deleting one item drops the count to 9 and moves the session to the
	// payment step without resubmitting.
	transitioned := s.OwnedCountChanged(9)
	assert.True(t, transitioned)
	assert.Equal(t, StateAwaitingPayment, s.State())

	draft, held := s.Draft()
	require.True(t, held)
	assert.Equal(t, testDraft(), draft)
}

func TestSession_OwnedCountChangedIgnoresCountsStillAtCap(t *testing.T) {
	s := NewSession()
	_, err := s.Submit(testDraft(), 12)
	require.NoError(t, err)

	assert.False(t, s.OwnedCountChanged(11))
	assert.Equal(t, StateAwaitingQuotaResolution, s.State())
}

func TestSession_OwnedCountChangedIsNoopWhenNotBlocked(t *testing.T) {
	s := NewSession()
	assert.False(t, s.OwnedCountChanged(0))

	_, err := s.Submit(testDraft(), 3)
	require.NoError(t, err)
	assert.False(t, s.OwnedCountChanged(2))
	assert.Equal(t, StateAwaitingPayment, s.State())
}

func TestSession_CancelDiscardsDraft(t *testing.T) {
	for _, n := range []int{3, 10} {
		s := NewSession()
		_, err := s.Submit(testDraft(), n)
		require.NoError(t, err)

		require.NoError(t, s.Cancel())
		assert.Equal(t, StateIdle, s.State())
		_, held := s.Draft()
		assert.False(t, held)
	}
}

func TestSession_CancelWithoutSubmission(t *testing.T) {
	s := NewSession()
	assert.ErrorIs(t, s.Cancel(), ErrNoPendingDraft)
}

func TestSession_RejectsConcurrentSubmission(t *testing.T) {
	s := NewSession()
	_, err := s.Submit(testDraft(), 3)
	require.NoError(t, err)

	_, err = s.Submit(testDraft(), 3)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
}

func TestSession_ConcurrentConfirmationsCreateAtMostOnce(t *testing.T) {
	s := NewSession()
	_, err := s.Submit(testDraft(), 3)
	require.NoError(t, err)

	const confirmations = 16
	var created int64
	var wg sync.WaitGroup

	for i := 0; i < confirmations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.BeginPayment(); err == nil {
				atomic.AddInt64(&created, 1)
				s.Complete()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), created)
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_ConcurrentAccessIsSafe(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = s.Submit(testDraft(), 3)
				s.State()
				s.Draft()
				s.OwnedCountChanged(9)
				if _, err := s.BeginPayment(); err == nil {
					s.Fail()
				}
				_ = s.Cancel()
			}
		}()
	}
	wg.Wait()
}

// Package quota implements the listing quota gate: the first listing is
// free, further listings up to a hard cap require a paid confirmation step,
// and beyond the cap the owner must delete an existing item first.
package quota

import (
	"errors"
	"sync"

	"go-rentmart/models"
)

const (
	// FreeThreshold is the number of listings an owner gets for free.
	FreeThreshold = 1
	// HardCap is the maximum number of items a single owner may list.
	HardCap = 10
)

// Decision is the outcome of evaluating a submission against the owner's
// current item count.
type Decision int

const (
	// DecisionFree creates the item immediately.
	DecisionFree Decision = iota
	// DecisionPayment holds the draft until payment is confirmed.
	DecisionPayment
	// DecisionBlocked holds the draft until an existing item is deleted.
	DecisionBlocked
)

// Evaluate applies the quota policy to an owner's current item count.
func Evaluate(ownedCount int) Decision {
	switch {
	case ownedCount < FreeThreshold:
		return DecisionFree
	case ownedCount < HardCap:
		return DecisionPayment
	default:
		return DecisionBlocked
	}
}

// State names the phase of a submission attempt.
type State int

const (
	StateIdle State = iota
	StateAwaitingPayment
	StateAwaitingQuotaResolution
	// StateFinalizing is held while the confirmed item is being written to
	// the store, so only one confirmation can ever reach the insert.
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StateAwaitingQuotaResolution:
		return "awaiting_quota_resolution"
	case StateFinalizing:
		return "finalizing"
	default:
		return "idle"
	}
}

var (
	// ErrSubmissionInProgress rejects a second submission while a draft is
	// still pending.
	ErrSubmissionInProgress = errors.New("quota: a submission is already pending")
	// ErrNoPendingDraft rejects confirm/cancel outside an active submission.
	ErrNoPendingDraft = errors.New("quota: no pending draft")
	// ErrPaymentNotDue rejects payment confirmation while the hard cap is
	// still exceeded.
	ErrPaymentNotDue = errors.New("quota: quota must be resolved before payment")
)

// Session tracks one owner's submission attempt. The draft is held in
// memory only; the item is created by the caller, at most once, on either
// the free path or the confirmed payment path. Sessions are shared between
// concurrent handlers, so every transition happens under the mutex.
type Session struct {
	mu    sync.Mutex
	state State
	draft models.ItemDraft
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State reports the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the held draft, if any.
func (s *Session) Draft() (models.ItemDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return models.ItemDraft{}, false
	}
	return s.draft, true
}

// Submit evaluates a new draft against the owner's current item count.
// On DecisionFree the session stays idle and the caller creates the item
// directly; otherwise the draft is held until payment or cancellation.
func (s *Session) Submit(draft models.ItemDraft, ownedCount int) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return 0, ErrSubmissionInProgress
	}

	decision := Evaluate(ownedCount)
	switch decision {
	case DecisionPayment:
		s.state = StateAwaitingPayment
		s.draft = draft
	case DecisionBlocked:
		s.state = StateAwaitingQuotaResolution
		s.draft = draft
	}
	return decision, nil
}

// OwnedCountChanged re-evaluates a blocked session after the owner's item
// count changed. Once the count drops below the hard cap the session moves
// to awaiting payment with the original draft intact. It reports whether a
// transition happened.
func (s *Session) OwnedCountChanged(ownedCount int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAwaitingQuotaResolution && ownedCount < HardCap {
		s.state = StateAwaitingPayment
		return true
	}
	return false
}

// BeginPayment claims the draft for creation after a confirmed payment and
// moves the session to StateFinalizing, so a second confirmation cannot
// obtain the draft and create the item again. The caller must follow up
// with Complete once the store accepted the item, or Fail to put the draft
// back for another attempt.
func (s *Session) BeginPayment() (models.ItemDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateAwaitingPayment:
		s.state = StateFinalizing
		return s.draft, nil
	case StateAwaitingQuotaResolution:
		return models.ItemDraft{}, ErrPaymentNotDue
	case StateFinalizing:
		return models.ItemDraft{}, ErrSubmissionInProgress
	default:
		return models.ItemDraft{}, ErrNoPendingDraft
	}
}

// Complete marks the pending item as created and returns the session to
// idle.
func (s *Session) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.draft = models.ItemDraft{}
}

// Fail rolls a failed store insert back to the payment step with the draft
// intact.
func (s *Session) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateFinalizing {
		s.state = StateAwaitingPayment
	}
}

// Cancel discards the pending draft without creating anything. A session
// whose item is already being written cannot be cancelled.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle:
		return ErrNoPendingDraft
	case StateFinalizing:
		return ErrSubmissionInProgress
	}
	s.state = StateIdle
	s.draft = models.ItemDraft{}
	return nil
}

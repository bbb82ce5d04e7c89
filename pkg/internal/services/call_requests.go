package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/voiceconnect/backend/pkg/internal/models"
)

// CallRequestTimeout is how long a pending call request stays claimable.
const CallRequestTimeout = 2 * time.Minute

// CallNotifier receives lifecycle notifications for call requests.
// The signal relay implements it; tests substitute their own.
type CallNotifier interface {
	NotifyCallCreated(request models.CallRequest)
	NotifyCallResolved(request models.CallRequest)
}

// CallArbiter owns the call request state machine: creation, single-winner
// accept or reject, cancellation and time-based expiry. Per-record
// serialization comes from the store's conditional update, so racing
// responders on the same record never both win.
type CallArbiter struct {
	store    CallRequestStore
	dir      Directory
	notifier CallNotifier
}

func NewCallArbiter(store CallRequestStore, dir Directory, notifier CallNotifier) *CallArbiter {
	return &CallArbiter{
		store:    store,
		dir:      dir,
		notifier: notifier,
	}
}

func (v *CallArbiter) CreateCallRequest(topicId, requesterId string) (models.CallRequest, error) {
	var request models.CallRequest

	topic, err := v.dir.GetTopic(topicId)
	if err != nil {
		return request, err
	}
	if exists, err := v.dir.UserExists(requesterId); err != nil {
		return request, err
	} else if !exists {
		return request, fmt.Errorf("user %s: %w", requesterId, ErrNotFound)
	}
	if topic.AuthorID == requesterId {
		return request, fmt.Errorf("cannot request a call on your own topic: %w", ErrInvalidOperation)
	}

	// A pending, non-expired request for the same topic and requester is
	// returned as-is instead of creating a duplicate.
	if existing, err := v.store.ScanPendingByTopicAndRequester(topicId, requesterId); err != nil {
		return request, err
	} else if existing != nil && time.Since(existing.CreatedAt) <= CallRequestTimeout {
		return *existing, nil
	}

	request = models.CallRequest{
		ID:          uuid.NewString(),
		TopicID:     topicId,
		RequesterID: requesterId,
		ResponderID: lo.ToPtr(topic.AuthorID),
		Status:      models.CallRequestStatusPending,
	}

	if err := v.store.Insert(&request); err != nil {
		return request, err
	}

	log.Info().
		Str("request", request.ID).
		Str("topic", topicId).
		Str("requester", requesterId).
		Msg("Call request created.")

	v.notifier.NotifyCallCreated(request)

	return request, nil
}

func (v *CallArbiter) AcceptCallRequest(requestId, userId string) (models.CallRequest, error) {
	return v.resolveCallRequest(requestId, userId, models.CallRequestStatusAccepted)
}

func (v *CallArbiter) RejectCallRequest(requestId, userId string) (models.CallRequest, error) {
	return v.resolveCallRequest(requestId, userId, models.CallRequestStatusRejected)
}

func (v *CallArbiter) resolveCallRequest(requestId, userId string, status models.CallRequestStatus) (models.CallRequest, error) {
	request, err := v.store.Get(requestId)
	if err != nil {
		return request, err
	}
	if request.IsTerminated() {
		return request, fmt.Errorf("call request %s is already %s: %w", request.ID, request.Status, ErrInvalidState)
	}
	if time.Since(request.CreatedAt) > CallRequestTimeout {
		v.expireCallRequest(request)
		return request, fmt.Errorf("call request %s: %w", request.ID, ErrExpired)
	}
	if request.RequesterID == userId {
		return request, fmt.Errorf("cannot respond to your own call request: %w", ErrForbidden)
	}

	request.Status = status
	request.RespondedAt = lo.ToPtr(time.Now())
	if status == models.CallRequestStatusAccepted {
		// Whoever actually accepted becomes the responder, replacing the
		// topic author that was filled in as the default candidate.
		request.ResponderID = lo.ToPtr(userId)
	}

	if won, err := v.store.UpdateIfPending(request); err != nil {
		return request, err
	} else if !won {
		return request, fmt.Errorf("call request %s was claimed by someone else: %w", request.ID, ErrInvalidState)
	}

	log.Info().
		Str("request", request.ID).
		Str("responder", userId).
		Str("status", status).
		Msg("Call request resolved.")

	v.notifier.NotifyCallResolved(request)

	return request, nil
}

// CancelCallRequest withdraws a pending request. Only the requester can do
// this, and it does not count as a response.
func (v *CallArbiter) CancelCallRequest(requestId, userId string) (models.CallRequest, error) {
	request, err := v.store.Get(requestId)
	if err != nil {
		return request, err
	}
	if request.IsTerminated() {
		return request, fmt.Errorf("call request %s is already %s: %w", request.ID, request.Status, ErrInvalidState)
	}
	if request.RequesterID != userId {
		return request, fmt.Errorf("only the requester can cancel a call request: %w", ErrForbidden)
	}

	request.Status = models.CallRequestStatusCancelled
	if won, err := v.store.UpdateIfPending(request); err != nil {
		return request, err
	} else if !won {
		return request, fmt.Errorf("call request %s was claimed by someone else: %w", request.ID, ErrInvalidState)
	}

	return request, nil
}

// ExpireStaleCallRequests transitions every pending request older than the
// timeout to expired and reports how many it claimed. Records claimed by a
// concurrent accept or reject are skipped; records that fail to update are
// logged and skipped so one bad row cannot halt the sweep.
func (v *CallArbiter) ExpireStaleCallRequests() int {
	deadline := time.Now().Add(-CallRequestTimeout)
	requests, err := v.store.ScanPendingOlderThan(deadline)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to scan for stale call requests...")
		return 0
	}

	var count int
	for _, request := range requests {
		if v.expireCallRequest(request) {
			count++
		}
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("Expired stale call requests.")
	}

	return count
}

func (v *CallArbiter) expireCallRequest(request models.CallRequest) bool {
	request.Status = models.CallRequestStatusExpired
	won, err := v.store.UpdateIfPending(request)
	if err != nil {
		log.Warn().Err(err).Str("request", request.ID).Msg("Unable to expire call request, skipping...")
		return false
	}
	if won {
		v.notifier.NotifyCallResolved(request)
	}
	return won
}

// ListPendingCallRequests returns claimable requests not authored by the
// given user, newest first. Stale entries are swept out beforehand so they
// never show up in listings.
func (v *CallArbiter) ListPendingCallRequests(excludingUserId string) ([]models.CallRequest, error) {
	v.ExpireStaleCallRequests()

	deadline := time.Now().Add(-CallRequestTimeout)
	return v.store.ScanPendingNewerThan(deadline, excludingUserId)
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voiceconnect/backend/pkg/internal/models"
)

type memoryCallRequestStore struct {
	mu       sync.Mutex
	requests map[string]models.CallRequest
}

func newMemoryCallRequestStore() *memoryCallRequestStore {
	return &memoryCallRequestStore{requests: make(map[string]models.CallRequest)}
}

func (v *memoryCallRequestStore) Insert(request *models.CallRequest) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	v.requests[request.ID] = *request
	return nil
}

func (v *memoryCallRequestStore) Get(id string) (models.CallRequest, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	request, ok := v.requests[id]
	if !ok {
		return request, fmt.Errorf("call request %s: %w", id, ErrNotFound)
	}
	return request, nil
}

func (v *memoryCallRequestStore) UpdateIfPending(request models.CallRequest) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	current, ok := v.requests[request.ID]
	if !ok || current.Status != models.CallRequestStatusPending {
		return false, nil
	}
	current.Status = request.Status
	current.ResponderID = request.ResponderID
	current.RespondedAt = request.RespondedAt
	v.requests[request.ID] = current
	return true, nil
}

func (v *memoryCallRequestStore) ScanPendingOlderThan(deadline time.Time) ([]models.CallRequest, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []models.CallRequest
	for _, request := range v.requests {
		if request.Status == models.CallRequestStatusPending && request.CreatedAt.Before(deadline) {
			out = append(out, request)
		}
	}
	return out, nil
}

func (v *memoryCallRequestStore) ScanPendingNewerThan(deadline time.Time, excludingUserId string) ([]models.CallRequest, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []models.CallRequest
	for _, request := range v.requests {
		if request.Status == models.CallRequestStatusPending &&
			request.CreatedAt.After(deadline) &&
			request.RequesterID != excludingUserId {
			out = append(out, request)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (v *memoryCallRequestStore) ScanPendingByTopicAndRequester(topicId, requesterId string) (*models.CallRequest, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, request := range v.requests {
		if request.TopicID == topicId &&
			request.RequesterID == requesterId &&
			request.Status == models.CallRequestStatusPending {
			out := request
			return &out, nil
		}
	}
	return nil, nil
}

func (v *memoryCallRequestStore) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.requests)
}

func (v *memoryCallRequestStore) setCreatedAt(id string, at time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	request := v.requests[id]
	request.CreatedAt = at
	v.requests[id] = request
}

type staticDirectory struct {
	topics map[string]models.Topic
	users  map[string]struct{}
}

func (v *staticDirectory) GetTopic(id string) (models.Topic, error) {
	topic, ok := v.topics[id]
	if !ok {
		return topic, fmt.Errorf("topic %s: %w", id, ErrNotFound)
	}
	return topic, nil
}

func (v *staticDirectory) UserExists(id string) (bool, error) {
	_, ok := v.users[id]
	return ok, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	created  []models.CallRequest
	resolved []models.CallRequest
}

func (v *recordingNotifier) NotifyCallCreated(request models.CallRequest) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.created = append(v.created, request)
}

func (v *recordingNotifier) NotifyCallResolved(request models.CallRequest) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resolved = append(v.resolved, request)
}

func newTestArbiter() (*CallArbiter, *memoryCallRequestStore, *recordingNotifier) {
	store := newMemoryCallRequestStore()
	notifier := &recordingNotifier{}
	dir := &staticDirectory{
		topics: map[string]models.Topic{
			"t1": {ID: "t1", Text: "let's talk go", AuthorID: "alice"},
			"t2": {ID: "t2", Text: "anything but go", AuthorID: "alice"},
		},
		users: map[string]struct{}{
			"alice": {}, "bob": {}, "carol": {}, "dave": {},
		},
	}
	return NewCallArbiter(store, dir, notifier), store, notifier
}

func TestCreateCallRequest(t *testing.T) {
	arbiter, store, notifier := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusPending, request.Status)
	assert.Equal(t, "bob", request.RequesterID)
	require.NotNil(t, request.ResponderID)
	assert.Equal(t, "alice", *request.ResponderID)
	assert.Nil(t, request.RespondedAt)
	assert.Len(t, notifier.created, 1)

	// Same pair again gives back the original record.
	again, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)
	assert.Equal(t, request.ID, again.ID)
	assert.Equal(t, 1, store.count())
	assert.Len(t, notifier.created, 1)

	// A different topic is a separate request.
	other, err := arbiter.CreateCallRequest("t2", "bob")
	require.NoError(t, err)
	assert.NotEqual(t, request.ID, other.ID)
}

func TestCreateCallRequestFailures(t *testing.T) {
	arbiter, _, _ := newTestArbiter()

	_, err := arbiter.CreateCallRequest("missing", "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = arbiter.CreateCallRequest("t1", "stranger")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = arbiter.CreateCallRequest("t1", "alice")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestAcceptCallRequest(t *testing.T) {
	arbiter, _, notifier := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)

	// Anyone but the requester may accept, not just the topic author.
	accepted, err := arbiter.AcceptCallRequest(request.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.ResponderID)
	assert.Equal(t, "carol", *accepted.ResponderID)
	require.NotNil(t, accepted.RespondedAt)
	assert.Len(t, notifier.resolved, 1)

	_, err = arbiter.AcceptCallRequest(request.ID, "dave")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRejectCallRequest(t *testing.T) {
	arbiter, _, _ := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)

	rejected, err := arbiter.RejectCallRequest(request.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RespondedAt)
	// Rejection keeps the default candidate untouched.
	require.NotNil(t, rejected.ResponderID)
	assert.Equal(t, "alice", *rejected.ResponderID)
}

func TestRespondToOwnRequest(t *testing.T) {
	arbiter, _, _ := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)

	_, err = arbiter.AcceptCallRequest(request.ID, "bob")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = arbiter.RejectCallRequest(request.ID, "bob")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = arbiter.AcceptCallRequest("missing", "carol")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentResponsesSingleWinner(t *testing.T) {
	arbiter, _, _ := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)

	responders := []string{"alice", "carol", "dave"}
	outcomes := make([]error, len(responders)+1)

	var wg sync.WaitGroup
	for idx, responder := range responders {
		wg.Add(1)
		go func(idx int, responder string) {
			defer wg.Done()
			_, outcomes[idx] = arbiter.AcceptCallRequest(request.ID, responder)
		}(idx, responder)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, outcomes[len(responders)] = arbiter.RejectCallRequest(request.ID, "alice")
	}()
	wg.Wait()

	var wins int
	for _, err := range outcomes {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInvalidState)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestAcceptExpiredRequest(t *testing.T) {
	arbiter, store, _ := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)
	store.setCreatedAt(request.ID, time.Now().Add(-CallRequestTimeout-time.Second))

	_, err = arbiter.AcceptCallRequest(request.ID, "carol")
	assert.ErrorIs(t, err, ErrExpired)

	stored, err := store.Get(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusExpired, stored.Status)
	assert.Nil(t, stored.RespondedAt)

	// Terminal states are terminal, even for expiry.
	_, err = arbiter.RejectCallRequest(request.ID, "carol")
	assert.ErrorIs(t, err, ErrInvalidState)

	pending, err := arbiter.ListPendingCallRequests("carol")
	require.NoError(t, err)
	for _, item := range pending {
		assert.NotEqual(t, request.ID, item.ID)
	}
}

func TestExpireStaleCallRequests(t *testing.T) {
	arbiter, store, notifier := newTestArbiter()

	stale, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)
	fresh, err := arbiter.CreateCallRequest("t2", "carol")
	require.NoError(t, err)
	store.setCreatedAt(stale.ID, time.Now().Add(-CallRequestTimeout-time.Second))

	count := arbiter.ExpireStaleCallRequests()
	assert.Equal(t, 1, count)

	stored, err := store.Get(stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusExpired, stored.Status)

	stored, err = store.Get(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusPending, stored.Status)

	// The requester gets told their request timed out.
	require.Len(t, notifier.resolved, 1)
	assert.Equal(t, stale.ID, notifier.resolved[0].ID)

	// Nothing left to sweep.
	assert.Equal(t, 0, arbiter.ExpireStaleCallRequests())
}

func TestListPendingCallRequests(t *testing.T) {
	arbiter, store, _ := newTestArbiter()

	first, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)
	second, err := arbiter.CreateCallRequest("t2", "carol")
	require.NoError(t, err)
	store.setCreatedAt(first.ID, time.Now().Add(-time.Minute))

	pending, err := arbiter.ListPendingCallRequests("dave")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, second.ID, pending[0].ID)
	assert.Equal(t, first.ID, pending[1].ID)

	// Own requests are hidden.
	pending, err = arbiter.ListPendingCallRequests("bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestCancelCallRequest(t *testing.T) {
	arbiter, store, _ := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)

	_, err = arbiter.CancelCallRequest(request.ID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := arbiter.CancelCallRequest(request.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.RespondedAt)

	stored, err := store.Get(request.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsTerminated())

	_, err = arbiter.AcceptCallRequest(request.ID, "carol")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStatusMonotonicAfterResolution(t *testing.T) {
	arbiter, store, _ := newTestArbiter()

	request, err := arbiter.CreateCallRequest("t1", "bob")
	require.NoError(t, err)

	_, err = arbiter.AcceptCallRequest(request.ID, "carol")
	require.NoError(t, err)

	for _, attempt := range []func() error{
		func() error { _, err := arbiter.AcceptCallRequest(request.ID, "dave"); return err },
		func() error { _, err := arbiter.RejectCallRequest(request.ID, "dave"); return err },
		func() error { _, err := arbiter.CancelCallRequest(request.ID, "bob"); return err },
	} {
		assert.ErrorIs(t, attempt(), ErrInvalidState)
	}

	store.setCreatedAt(request.ID, time.Now().Add(-CallRequestTimeout-time.Second))
	assert.Equal(t, 0, arbiter.ExpireStaleCallRequests())

	stored, err := store.Get(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CallRequestStatusAccepted, stored.Status)
}

func TestErrorsAreTyped(t *testing.T) {
	arbiter, _, _ := newTestArbiter()

	_, err := arbiter.CreateCallRequest("t1", "alice")
	assert.True(t, errors.Is(err, ErrInvalidOperation))
	assert.False(t, errors.Is(err, ErrForbidden))
}

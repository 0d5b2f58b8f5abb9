package booking

import (
	"context"
	"errors"
	"testing"

	"mobilvask/internal/events"
	"mobilvask/internal/models"
	"mobilvask/internal/notify"
	"mobilvask/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, payload models.NotificationPayload) error {
	return m.Called(ctx, payload).Error(0)
}

type failingStore struct {
	appends int
}

func (s *failingStore) Append(ctx context.Context, record models.BookingRecord) error {
	s.appends++
	return errors.New("disk full")
}

type recordingSecondary struct {
	records []models.BookingRecord
}

func (r *recordingSecondary) Notify(ctx context.Context, record models.BookingRecord) {
	r.records = append(r.records, record)
}

func newTestService(st *store.MemoryStore, n *mockNotifier) *Service {
	logger := zerolog.Nop()
	return NewService(st, n, nil, events.NewEventBus(), models.DefaultServices, &logger)
}

func TestSubmitSuccess(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(st, notifier)
	ref, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Regexp(t, referencePattern, ref)

	records, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusPending, records[0].Status)
	assert.Equal(t, ref, records[0].Reference)
	assert.Empty(t, records[0].Error)

	// The reference handed to the caller is the one in the payload.
	payload := notifier.Calls[0].Arguments.Get(1).(models.NotificationPayload)
	assert.Equal(t, ref, payload.BookingReference)
	notifier.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmitPayloadFields(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(st, notifier)
	req := validRequest()
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	payload := notifier.Calls[0].Arguments.Get(1).(models.NotificationPayload)
	assert.Equal(t, req.Name, payload.FromName)
	assert.Equal(t, req.Service, payload.ServiceSelection)
	assert.Equal(t, req.Email, payload.ReplyTo)
	assert.Equal(t, req.Phone, payload.Phone)
	assert.Equal(t, req.Message, payload.Message)
	assert.Regexp(t, `^\d{1,2}\.\d{1,2}\.\d{4}$`, payload.BookingDate)
}

func TestSubmitValidationFailure(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)

	svc := newTestService(st, notifier)
	_, err := svc.Submit(context.Background(), models.BookingRequest{Service: "Premium Vask"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 3)

	// No side effects before validation passes.
	records, _ := st.List(context.Background())
	assert.Empty(t, records)
	notifier.AssertNotCalled(t, "Send")
}

func TestSubmitDispatchFailure(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(&notify.SendError{StatusCode: 500, Body: "boom"})

	svc := newTestService(st, notifier)
	_, err := svc.Submit(context.Background(), validRequest())

	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, notify.BucketUnknown, submitErr.Bucket)
	assert.NotEmpty(t, submitErr.UserMessage)

	records, _ := st.List(context.Background())
	require.Len(t, records, 2)
	assert.Equal(t, models.StatusPending, records[0].Status)
	assert.Equal(t, models.StatusFailed, records[1].Status)
	assert.NotEmpty(t, records[1].Error)

	// The failed record carries a freshly minted reference.
	assert.NotEqual(t, records[0].Reference, records[1].Reference)
	assert.Regexp(t, referencePattern, records[1].Reference)
	// Both halves of the attempt share the attempt id.
	assert.Equal(t, records[0].AttemptID, records[1].AttemptID)
}

func TestSubmitTwoSequentialFailures(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := newTestService(st, notifier)
	_, err1 := svc.Submit(context.Background(), validRequest())
	_, err2 := svc.Submit(context.Background(), validRequest())
	require.Error(t, err1)
	require.Error(t, err2)

	records, _ := st.List(context.Background())
	require.Len(t, records, 4)

	var failed []models.BookingRecord
	for _, r := range records {
		if r.Status == models.StatusFailed {
			failed = append(failed, r)
		}
	}
	require.Len(t, failed, 2)
	assert.NotEqual(t, failed[0].Reference, failed[1].Reference)
	assert.NotEqual(t, failed[0].AttemptID, failed[1].AttemptID)
}

func TestSubmitErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		bucket string
	}{
		{"unauthorized", &notify.SendError{StatusCode: 401}, notify.BucketAuthorization},
		{"forbidden", &notify.SendError{StatusCode: 403}, notify.BucketAuthorization},
		{"bad request", &notify.SendError{StatusCode: 400}, notify.BucketBadRequest},
		{"server error", &notify.SendError{StatusCode: 503}, notify.BucketUnknown},
		{"connection refused", errors.New("dial tcp: connection refused"), notify.BucketNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			notifier := new(mockNotifier)
			notifier.On("Send", mock.Anything, mock.Anything).Return(tt.err)

			svc := newTestService(st, notifier)
			_, err := svc.Submit(context.Background(), validRequest())

			var submitErr *SubmitError
			require.ErrorAs(t, err, &submitErr)
			assert.Equal(t, tt.bucket, submitErr.Bucket)
		})
	}
}

func TestSubmitStoreFailureIsSwallowed(t *testing.T) {
	st := &failingStore{}
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	logger := zerolog.Nop()
	svc := NewService(st, notifier, nil, nil, models.DefaultServices, &logger)

	ref, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Regexp(t, referencePattern, ref)
	assert.Equal(t, 1, st.appends)
}

func TestSubmitStoreFailureOnFailedDispatch(t *testing.T) {
	st := &failingStore{}
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("timeout"))

	logger := zerolog.Nop()
	svc := NewService(st, notifier, nil, nil, models.DefaultServices, &logger)

	_, err := svc.Submit(context.Background(), validRequest())
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	// Both appends attempted, both swallowed.
	assert.Equal(t, 2, st.appends)
}

func TestSubmitNormalizesService(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(st, notifier)
	req := validRequest()
	req.Service = "Ukendt Tarif"
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	records, _ := st.List(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, models.DefaultServices[0], records[0].Service)
}

func TestSubmitSecondaryNotifier(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil)

	secondary := &recordingSecondary{}
	logger := zerolog.Nop()
	svc := NewService(st, notifier, secondary, nil, models.DefaultServices, &logger)

	ref, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, secondary.records, 1)
	assert.Equal(t, ref, secondary.records[0].Reference)
}

func TestSubmitSecondarySkippedOnFailure(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := new(mockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("down"))

	secondary := &recordingSecondary{}
	logger := zerolog.Nop()
	svc := NewService(st, notifier, secondary, nil, models.DefaultServices, &logger)

	_, err := svc.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.Empty(t, secondary.records)
}

func TestServicesDefaultFirst(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewService(nil, nil, nil, nil, nil, &logger)
	require.NotEmpty(t, svc.Services())
	assert.Equal(t, models.DefaultServices[0], svc.Services()[0])
}

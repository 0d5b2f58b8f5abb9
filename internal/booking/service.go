package booking

import (
	"context"
	"fmt"
	"time"

	"mobilvask/internal/domain"
	"mobilvask/internal/events"
	"mobilvask/internal/metrics"
	"mobilvask/internal/models"
	"mobilvask/internal/notify"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ValidationError rejects a request before any side effect.
type ValidationError struct {
	Fields models.ValidationErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking request invalid: %d field(s)", len(e.Fields))
}

// SubmitError is a classified dispatch failure. UserMessage is the only
// part shown to the user; Err keeps the original detail for logs.
type SubmitError struct {
	Bucket      string
	UserMessage string
	Err         error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("booking dispatch failed (%s): %v", e.Bucket, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Service orchestrates one submission attempt: validation, reference
// minting, backup persistence and outbound dispatch.
type Service struct {
	store     domain.BackupLog
	notifier  domain.Notifier
	secondary domain.SecondaryNotifier
	eventBus  domain.EventPublisher
	services  []string
	logger    *zerolog.Logger
}

func NewService(
	store domain.BackupLog,
	notifier domain.Notifier,
	secondary domain.SecondaryNotifier,
	eventBus domain.EventPublisher,
	services []string,
	logger *zerolog.Logger,
) *Service {
	if len(services) == 0 {
		services = models.DefaultServices
	}
	return &Service{
		store:     store,
		notifier:  notifier,
		secondary: secondary,
		eventBus:  eventBus,
		services:  services,
		logger:    logger,
	}
}

// Services returns the closed set of tiers, default first.
func (s *Service) Services() []string {
	return s.services
}

// Submit drives one attempt to completion. On success it returns the
// minted reference. Validation failures return *ValidationError before
// any side effect; dispatch failures return *SubmitError after a failed
// record has been appended. Backup append errors never escalate.
func (s *Service) Submit(ctx context.Context, req models.BookingRequest) (string, error) {
	req.Service = models.NormalizeService(req.Service, s.services)

	if errs := Validate(req); len(errs) > 0 {
		metrics.IncSubmission("rejected")
		return "", &ValidationError{Fields: errs}
	}

	attemptID := uuid.NewString()
	reference := NewReference()
	s.logger.Info().Str("attempt_id", attemptID).Str("reference", reference).Str("service", req.Service).Msg("booking attempt started")

	pending := models.NewBookingRecord(req, attemptID, reference, models.StatusPending, "")
	s.append(ctx, pending)

	if err := s.notifier.Send(ctx, buildPayload(req, reference)); err != nil {
		// Свежий код для записи о неудачной попытке
		failedRef := NewReference()
		failed := models.NewBookingRecord(req, attemptID, failedRef, models.StatusFailed, err.Error())
		s.append(ctx, failed)

		failure := notify.Classify(err)
		metrics.IncSubmission("failed")
		metrics.IncNotifyFailure(failure.Bucket)
		s.publish(events.EventBookingFailed, failed, failure.Bucket)

		s.logger.Error().Err(err).
			Str("attempt_id", attemptID).
			Str("reference", failedRef).
			Str("bucket", failure.Bucket).
			Msg("booking dispatch failed")

		return "", &SubmitError{Bucket: failure.Bucket, UserMessage: failure.UserMessage, Err: err}
	}

	if s.secondary != nil {
		s.secondary.Notify(ctx, pending)
	}

	metrics.IncSubmission("accepted")
	s.publish(events.EventBookingSubmitted, pending, "")
	s.logger.Info().Str("attempt_id", attemptID).Str("reference", reference).Msg("booking accepted")

	return reference, nil
}

// buildPayload fills the mail template variables. The booking date uses
// the D.M.YYYY display format without leading zeros.
func buildPayload(req models.BookingRequest, reference string) models.NotificationPayload {
	now := time.Now()
	return models.NotificationPayload{
		FromName:         req.Name,
		ServiceSelection: req.Service,
		ReplyTo:          req.Email,
		Phone:            req.Phone,
		Message:          req.Message,
		BookingReference: reference,
		BookingDate:      fmt.Sprintf("%d.%d.%d", now.Day(), int(now.Month()), now.Year()),
	}
}

func (s *Service) append(ctx context.Context, record models.BookingRecord) {
	if s.store == nil {
		return
	}
	if err := s.store.Append(ctx, record); err != nil {
		metrics.IncStoreError()
		s.logger.Warn().Err(err).Str("reference", record.Reference).Msg("backup store append failed")
	}
}

func (s *Service) publish(eventType string, record models.BookingRecord, bucket string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		AttemptID: record.AttemptID,
		Reference: record.Reference,
		Service:   record.Service,
		Status:    record.Status,
		Bucket:    bucket,
		CreatedAt: record.CreatedAt,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("reference", record.Reference).Msg("publish event error")
	}
}

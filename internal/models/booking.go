package models

import "time"

// BookingRequest is the raw form input as submitted by the website.
type BookingRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// BookingRecord is the persisted copy of one submission attempt. Records are
// append-only: a retry produces a new record, never an update.
type BookingRecord struct {
	AttemptID string    `json:"attempt_id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"` // pending, failed
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookingRecord builds a record from the request at the moment a
// reference has been minted.
func NewBookingRecord(req BookingRequest, attemptID, reference, status, errText string) BookingRecord {
	return BookingRecord{
		AttemptID: attemptID,
		Reference: reference,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Message:   req.Message,
		Status:    status,
		Error:     errText,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidationErrors maps a field name to a human-readable message.
// An empty map means the request is valid.
type ValidationErrors map[string]string

// NotificationPayload is what the outbound email channel receives. Field
// names follow the mail template variables.
type NotificationPayload struct {
	FromName         string `json:"from_name"`
	ServiceSelection string `json:"service_selection"`
	ReplyTo          string `json:"reply_to"`
	Phone            string `json:"phone"`
	Message          string `json:"message"`
	BookingReference string `json:"booking_reference"`
	BookingDate      string `json:"booking_date"`
}

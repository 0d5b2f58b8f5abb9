package notify

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
)

const (
	BucketNetwork       = "network"
	BucketAuthorization = "authorization"
	BucketBadRequest    = "bad_request"
	BucketUnknown       = "unknown"
)

// Failure is a classified dispatch error with the message shown to the
// user. The raw error detail never reaches the user; it lives in the
// failed backup record and in logs.
type Failure struct {
	Bucket      string
	UserMessage string
}

const (
	msgNetwork       = "Netværksfejl. Tjek din internetforbindelse og prøv igen."
	msgAuthorization = "Autoriseringsfejl. Kontakt os direkte på telefon."
	msgBadRequest    = "Der er et problem med formularen. Kontakt os direkte."
	msgUnknown       = "Vi kunne ikke modtage din booking. Prøv igen senere eller ring til os."
)

// Classify buckets a dispatch error into one of four user-facing
// categories.
func Classify(err error) Failure {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		switch sendErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return Failure{Bucket: BucketAuthorization, UserMessage: msgAuthorization}
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return Failure{Bucket: BucketBadRequest, UserMessage: msgBadRequest}
		default:
			return Failure{Bucket: BucketUnknown, UserMessage: msgUnknown}
		}
	}

	if isNetworkError(err) {
		return Failure{Bucket: BucketNetwork, UserMessage: msgNetwork}
	}

	return Failure{Bucket: BucketUnknown, UserMessage: msgUnknown}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "network") || strings.Contains(msg, "connection")
}

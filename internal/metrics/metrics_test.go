package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdempotent(t *testing.T) {
	require.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(submissions.WithLabelValues("accepted"))
	IncSubmission("accepted")
	assert.Equal(t, before+1, testutil.ToFloat64(submissions.WithLabelValues("accepted")))

	before = testutil.ToFloat64(notifyFailures.WithLabelValues("network"))
	IncNotifyFailure("network")
	assert.Equal(t, before+1, testutil.ToFloat64(notifyFailures.WithLabelValues("network")))

	before = testutil.ToFloat64(storeErrors)
	IncStoreError()
	assert.Equal(t, before+1, testutil.ToFloat64(storeErrors))

	before = testutil.ToFloat64(httpRequests.WithLabelValues("bookings"))
	IncHTTP("bookings")
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("bookings")))
}

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg, "delivery-scheduler")

	m.IncBooking(BookingCommitted)
	m.IncBooking(BookingCommitted)
	m.IncBooking(BookingCapacityExceeded)
	m.IncAvailabilityCache(CacheHit)
	m.ObserveDBQuery("exec", time.Millisecond, errors.New("boom"))
	m.ObserveHTTPRequest("GET", "/api/storefront/slots", 200, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues(BookingCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues(BookingCapacityExceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availabilityCache.WithLabelValues(CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("exec")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/storefront/slots", "200")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBooking(BookingCommitted)
		m.IncAvailabilityCache(CacheMiss)
		m.ObserveDBQuery("query", time.Millisecond, nil)
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.SetDBPoolStats(1, 1, 0, 0)
	})
}

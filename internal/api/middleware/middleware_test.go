package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func signToken(t *testing.T, claims SessionClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() SessionClaims {
	return SessionClaims{
		Dest: "https://demo.myshopify.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{"api-key"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
}

func shopEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shop, _ := GetShop(r.Context())
		_, _ = w.Write([]byte(shop))
	})
}

func TestAuth_ValidToken(t *testing.T) {
	cfg := AuthConfig{Enabled: true, Secret: testSecret, Audience: "api-key"}
	handler := Auth(cfg, nopLogger{})(shopEcho())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/zones", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(), testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo.myshopify.com", rec.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	cfg := AuthConfig{Enabled: true, Secret: testSecret, Audience: "api-key"}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	noDest := validClaims()
	noDest.Dest = ""

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "wrong secret", header: "Bearer " + signToken(t, validClaims(), "other")},
		{name: "expired", header: "Bearer " + signToken(t, expired, testSecret)},
		{name: "wrong audience", header: "Bearer " + signToken(t, wrongAudience, testSecret)},
		{name: "no dest", header: "Bearer " + signToken(t, noDest, testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(cfg, nopLogger{})(shopEcho()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	handler := Auth(AuthConfig{Enabled: false}, nopLogger{})(shopEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ShopHeader, "dev.myshopify.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "dev.myshopify.com", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/?shop=query.myshopify.com", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "query.myshopify.com", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("1.1.1.1"))

	now = now.Add(2 * time.Minute)
	rl.Cleanup()
	assert.Empty(t, rl.visitors)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/storefront/slots", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRateLimiter_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/storefront/slots", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Len(t, rl.visitors, 1)
}

func TestRateLimiter_ClientIP(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	require.NoError(t, rl.TrustProxies([]string{"10.0.0.0/8", "192.168.1.1"}))

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "direct client", remoteAddr: "203.0.113.7:4000", want: "203.0.113.7"},
		{name: "spoofed header from client", remoteAddr: "203.0.113.7:4000", forwarded: "1.2.3.4", want: "203.0.113.7"},
		{name: "trusted proxy", remoteAddr: "10.1.2.3:4000", forwarded: "198.51.100.9", want: "198.51.100.9"},
		{name: "proxy chain skips trusted hops", remoteAddr: "10.1.2.3:4000", forwarded: "1.2.3.4, 198.51.100.9, 192.168.1.1", want: "198.51.100.9"},
		{name: "trusted proxy without header", remoteAddr: "192.168.1.1:4000", want: "192.168.1.1"},
		{name: "garbage header", remoteAddr: "10.1.2.3:4000", forwarded: "not-an-ip", want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, rl.clientIP(req))
		})
	}
}

func TestRateLimiter_TrustProxiesInvalid(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)

	err := rl.TrustProxies([]string{"10.0.0.0/33"})
	require.ErrorIs(t, err, ErrInvalidProxy)

	err = rl.TrustProxies([]string{"proxy.local"})
	require.ErrorIs(t, err, ErrInvalidProxy)
}

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/api/admin/delivery/bookings/{orderId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/delivery/bookings/1001", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, m.requests, 1)
	assert.Equal(t, recordedRequest{
		method: http.MethodDelete,
		route:  "/api/admin/delivery/bookings/{orderId}",
		status: http.StatusNotFound,
	}, m.requests[0])
}

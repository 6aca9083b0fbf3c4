package get_available_slots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-DeliveryScheduler/internal/usecase/get_available_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	shops []string
	resp  *getAvailableSlots.Response
	err   error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.shops = append(f.shops, req.Shop)
	return f.resp, f.err
}

func sampleResponse() *getAvailableSlots.Response {
	return &getAvailableSlots.Response{
		Shop:       "demo.myshopify.com",
		Configured: true,
		Available: domain.AvailabilityView{
			{
				Date: "2024-06-01",
				Slots: []domain.AvailableSlot{
					{ID: "14:00-16:00", StartTime: "14:00", EndTime: "16:00", Capacity: 3},
				},
			},
		},
	}
}

func TestHandleStorefront(t *testing.T) {
	uc := &fakeUseCase{resp: sampleResponse()}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/storefront/slots?shop=demo.myshopify.com", nil)
	rec := httptest.NewRecorder()
	h.HandleStorefront(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"demo.myshopify.com"}, uc.shops)
	assert.JSONEq(t, `{"available":[{"date":"2024-06-01","slots":[
		{"slotId":"14:00-16:00","startTime":"14:00","endTime":"16:00","capacity":3}]}]}`, rec.Body.String())
}

func TestHandleStorefront_NotConfiguredIsEmptyList(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{Shop: "new.myshopify.com"}}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/storefront/slots?shop=new.myshopify.com", nil)
	rec := httptest.NewRecorder()
	h.HandleStorefront(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available":[]}`, rec.Body.String())
}

func TestHandleStorefront_Errors(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		err    error
		status int
	}{
		{name: "missing shop", url: "/api/storefront/slots", status: http.StatusBadRequest},
		{name: "invalid shop", url: "/api/storefront/slots?shop=x", err: getAvailableSlots.ErrInvalidInput, status: http.StatusBadRequest},
		{
			name:   "storage unavailable",
			url:    "/api/storefront/slots?shop=demo.myshopify.com",
			err:    fmt.Errorf("%w: timeout", getAvailableSlots.ErrStorageUnavailable),
			status: http.StatusServiceUnavailable,
		},
		{name: "unexpected", url: "/api/storefront/slots?shop=demo.myshopify.com", err: fmt.Errorf("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})
			rec := httptest.NewRecorder()
			h.HandleStorefront(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandleAdmin_UsesAuthenticatedShop(t *testing.T) {
	uc := &fakeUseCase{resp: sampleResponse()}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/delivery/slots", nil)
	req = req.WithContext(middleware.WithShop(req.Context(), "demo.myshopify.com"))
	rec := httptest.NewRecorder()
	h.HandleAdmin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"demo.myshopify.com"}, uc.shops)

	rec = httptest.NewRecorder()
	h.HandleAdmin(rec, httptest.NewRequest(http.MethodPost, "/api/admin/delivery/slots", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.CancelByOrderRequest
	err error
}

func (f *fakeService) CancelByOrder(_ context.Context, req *models.CancelByOrderRequest) (*models.CancelResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.CancelResponse{Released: []models.BookingResponse{{ID: "b-1", OrderID: req.OrderID}}}, nil
}

func serve(svc BookingsService, orderID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/admin/delivery/bookings/{orderId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/delivery/bookings/"+orderID, nil)
	req = req.WithContext(middleware.WithShop(req.Context(), "demo.myshopify.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "1001")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo.myshopify.com", svc.got.Shop)
	assert.Equal(t, "1001", svc.got.OrderID)
	assert.Contains(t, rec.Body.String(), `"released"`)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: bookingsService.ErrBookingNotFound}, "1001").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: errors.New("boom")}, "1001").Code)
}

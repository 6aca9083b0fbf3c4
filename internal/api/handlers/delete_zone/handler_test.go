package delete_zone

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	zonesService "github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	shop, id string
	err      error
}

func (f *fakeService) Delete(_ context.Context, shop, id string) error {
	f.shop, f.id = shop, id
	return f.err
}

func serve(svc ZonesService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/admin/zones/{id}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/zones/z1", nil)
	req = req.WithContext(middleware.WithShop(req.Context(), "demo.myshopify.com"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, "demo.myshopify.com", svc.shop)
	assert.Equal(t, "z1", svc.id)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: zonesService.ErrZoneNotFound}).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: errors.New("boom")}).Code)
}

package list_zones

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-DeliveryScheduler/internal/service/zones/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	shop string
	err  error
}

func (f *fakeService) List(_ context.Context, shop string) (*models.ZoneListResponse, error) {
	f.shop = shop
	if f.err != nil {
		return nil, f.err
	}
	return &models.ZoneListResponse{Zones: []models.ZoneResponse{{ID: "z1", Name: "Downtown", ShippingRate: 4.5}}}, nil
}

func TestHandleStorefront(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).HandleStorefront(rec, httptest.NewRequest(http.MethodGet, "/api/storefront/zones?shop=demo.myshopify.com", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo.myshopify.com", svc.shop)
	assert.Contains(t, rec.Body.String(), `"zones":[`)

	rec = httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).HandleStorefront(rec, httptest.NewRequest(http.MethodGet, "/api/storefront/zones", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAdmin(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/zones", nil)
	req = req.WithContext(middleware.WithShop(req.Context(), "admin.myshopify.com"))

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).HandleAdmin(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin.myshopify.com", svc.shop)

	rec = httptest.NewRecorder()
	NewHandler(&fakeService{err: errors.New("boom")}, nopLogger{}).HandleAdmin(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

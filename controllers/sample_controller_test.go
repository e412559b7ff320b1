package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/models"
)

func sampleRouter(s *Srv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sc := NewSampleController(s)
	r.GET("/api/samples", sc.ListSamples)
	r.GET("/api/samples/:sample_id", sc.GetSample)
	r.POST("/api/samples/checkout", sc.Checkout)
	r.POST("/api/samples/upsert", sc.Upsert)
	return r
}

func TestListSamples(t *testing.T) {
	store := &fakeSampleStore{
		listRes: db.SampleListResult{
			Samples: []models.Sample{
				{ID: "1", SampleID: "S1"},
				{ID: "2", SampleID: "S2"},
			},
			Total: 17,
		},
	}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/samples?is_archived=false&limit=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data  []models.Sample `json:"data"`
		Count int64           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, int64(17), body.Count)
}

func TestGetSampleNotFound(t *testing.T) {
	store := &fakeSampleStore{getErr: db.ErrNotFound}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/samples/UNKNOWN", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN", store.gotGet)
}

func TestGetSampleAmbiguous(t *testing.T) {
	store := &fakeSampleStore{getErr: db.ErrAmbiguous}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/samples/S1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSampleCheckedOutShape(t *testing.T) {
	store := &fakeSampleStore{sample: &models.Sample{
		ID:                  "row-1",
		SampleID:            "S1",
		IsCheckedOut:        true,
		CheckedOutBy:        strPtr("JD"),
		PreviousContainerID: strPtr("box-1"),
		PreviousPosition:    strPtr("A1"),
	}}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/samples/S1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.Sample
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.IsCheckedOut)
	assert.Nil(t, got.ContainerID)
	assert.Nil(t, got.Position)
	require.NotNil(t, got.PreviousContainerID)
	assert.Equal(t, "box-1", *got.PreviousContainerID)
	require.NotNil(t, got.PreviousPosition)
	assert.Equal(t, "A1", *got.PreviousPosition)
}

func TestCheckoutSuccess(t *testing.T) {
	store := &fakeSampleStore{checkoutN: 1}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	body := `{"sample_ids":["S1"],"user_initials":"JD"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success    bool `json:"success"`
		CheckedOut int  `json:"checked_out"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.CheckedOut)
	assert.Equal(t, []string{"S1"}, store.gotIDs)
	assert.Equal(t, "JD", store.gotInitials)
}

func TestCheckoutMissingInitials(t *testing.T) {
	store := &fakeSampleStore{}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/checkout", strings.NewReader(`{"sample_ids":["S1"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, store.gotIDs)
}

func TestCheckoutEmptyBatchRejected(t *testing.T) {
	store := &fakeSampleStore{
		checkoutErr: fmt.Errorf("%w: sample_ids must not be empty", db.ErrValidation),
	}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/checkout", strings.NewReader(`{"sample_ids":[],"user_initials":"JD"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutStoreErrorIsOpaque(t *testing.T) {
	store := &fakeSampleStore{checkoutErr: fmt.Errorf("pq: connection refused")}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/checkout", strings.NewReader(`{"sample_ids":["S1"],"user_initials":"JD"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestUpsertCreated(t *testing.T) {
	store := &fakeSampleStore{
		placeSample: &models.Sample{ID: "row-1", SampleID: "S1"},
		placeAction: db.PlaceCreated,
	}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	body := `{"sample_id":"s1","container_id":"ctn-1","position":"A1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/upsert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Initials", "JD")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "s1", store.gotPlace.SampleID)
	assert.Equal(t, "JD", store.gotPlace.Initials)
}

func TestUpsertContainerFull(t *testing.T) {
	store := &fakeSampleStore{placeErr: db.ErrContainerFull}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	body := `{"sample_id":"S1","container_id":"ctn-1","position":"A1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/upsert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpsertConcurrentCreateConflict(t *testing.T) {
	// the loser of a same-id create race gets a retryable conflict, not an
	// opaque 500
	store := &fakeSampleStore{placeErr: fmt.Errorf("%w: sample S1 was created concurrently", db.ErrConflict)}
	r := sampleRouter(newTestSrv(store, nil, nil, nil))

	body := `{"sample_id":"S1","container_id":"ctn-1","position":"A1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/samples/upsert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict"`)
}

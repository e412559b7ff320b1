package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saga-aleeka/saga-store/models"
)

func auditRouter(s *Srv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/audit", NewAuditController(s).ListAuditLogs)
	return r
}

func TestListAuditLogsPassesFilters(t *testing.T) {
	store := &fakeAuditStore{}
	r := auditRouter(newTestSrv(nil, nil, store, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit?entity_type=sample&entity_name=S1&limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.called)
	assert.Equal(t, "sample", store.gotQ.EntityType)
	assert.Equal(t, "S1", store.gotQ.EntityName)
	assert.Equal(t, 5, store.gotQ.Limit)
}

func TestListAuditLogsNewestFirst(t *testing.T) {
	now := time.Now()
	store := &fakeAuditStore{logs: []models.AuditLog{
		{ID: "a", Action: "checkout", CreatedAt: now},
		{ID: "b", Action: "create", CreatedAt: now.Add(-time.Minute)},
	}}
	r := auditRouter(newTestSrv(nil, nil, store, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.AuditLog `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	// Store order is preserved on the wire.
	assert.False(t, body.Data[0].CreatedAt.Before(body.Data[1].CreatedAt))
}

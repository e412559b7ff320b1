package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/db"
)

type AuditController struct{ *Srv }

func NewAuditController(s *Srv) *AuditController { return &AuditController{Srv: s} }

// GET /api/audit?entity_type=&entity_name=&limit=
func (ac *AuditController) ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := ac.Audit.ListAuditLogs(c.Request.Context(), db.AuditQuery{
		EntityType: c.Query("entity_type"),
		EntityName: c.Query("entity_name"),
		Limit:      limit,
	})
	if err != nil {
		ac.fail(c, "list audit logs", err)
		return
	}
	c.JSON(http.StatusOK, app.H{"data": logs})
}

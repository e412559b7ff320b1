package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/metrics"
)

type SampleController struct{ *Srv }

func NewSampleController(s *Srv) *SampleController { return &SampleController{Srv: s} }

// GET /api/samples?is_archived=&container_id=&limit=&offset=
func (sc *SampleController) ListSamples(c *gin.Context) {
	archived, _ := strconv.ParseBool(c.DefaultQuery("is_archived", "false"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	res, err := sc.Samples.ListSamples(c.Request.Context(), db.SampleListQuery{
		Archived:    archived,
		ContainerID: c.Query("container_id"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		sc.fail(c, "list samples", err)
		return
	}
	c.JSON(http.StatusOK, app.H{"data": res.Samples, "count": res.Total})
}

// GET /api/samples/:sample_id
func (sc *SampleController) GetSample(c *gin.Context) {
	sampleID := c.Param("sample_id")
	if sampleID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing sample_id"})
		return
	}
	s, err := sc.Samples.GetSample(c.Request.Context(), sampleID)
	if err != nil {
		sc.fail(c, "get sample", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// POST /api/samples/checkout
func (sc *SampleController) Checkout(c *gin.Context) {
	var in struct {
		SampleIDs    []string `json:"sample_ids" binding:"required"`
		UserInitials string   `json:"user_initials" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	_, userName := userFromRequest(c)
	n, err := sc.Samples.CheckoutSamples(c.Request.Context(), in.SampleIDs, in.UserInitials, userName)
	if err != nil {
		sc.fail(c, "checkout samples", err)
		return
	}
	if n > 0 {
		metrics.SamplesCheckedOut.Add(float64(n))
		// Checked-out samples free their slots.
		sc.Cache.InvalidateContainers(c.Request.Context())
	}
	c.JSON(http.StatusOK, app.H{"success": true, "checked_out": n})
}

// POST /api/samples/upsert
func (sc *SampleController) Upsert(c *gin.Context) {
	var in struct {
		SampleID    string `json:"sample_id" binding:"required"`
		ContainerID string `json:"container_id" binding:"required"`
		Position    string `json:"position" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	initials, userName := userFromRequest(c)
	s, action, err := sc.Samples.PlaceSample(c.Request.Context(), db.PlaceSampleInput{
		SampleID:    in.SampleID,
		ContainerID: in.ContainerID,
		Position:    in.Position,
		Initials:    initials,
		UserName:    userName,
	})
	if err != nil {
		sc.fail(c, "place sample", err)
		return
	}
	if action != db.PlaceUnchanged {
		sc.Cache.InvalidateContainers(c.Request.Context())
	}
	status := http.StatusOK
	if action == db.PlaceCreated {
		status = http.StatusCreated
	}
	c.JSON(status, app.H{"data": s, "action": action})
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/lims"
)

type LIMSController struct{ *Srv }

func NewLIMSController(s *Srv) *LIMSController { return &LIMSController{Srv: s} }

const notConfiguredMsg = "LIMS adapter not configured"

// POST /api/lims/sync?since=RFC3339
// Pulls recent vendor samples and places the ones whose container resolves
// locally. Unresolvable rows are skipped and reported, not treated as
// failures.
func (lc *LIMSController) Sync(c *gin.Context) {
	if lc.LIMS == nil {
		c.JSON(http.StatusOK, app.H{"success": false, "message": notConfiguredMsg})
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "since must be RFC3339"})
			return
		}
		since = t
	}

	incoming, err := lc.LIMS.FetchNewSamples(c.Request.Context(), since)
	if err != nil {
		lc.fail(c, "lims sync", err)
		return
	}

	initials, userName := userFromRequest(c)
	imported, skipped := 0, 0
	for _, ls := range incoming {
		if ls.SampleID == "" || ls.ContainerName == "" || ls.Position == "" {
			skipped++
			continue
		}
		ctn, err := lc.Containers.FindContainerByName(c.Request.Context(), ls.ContainerName)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				lc.Log.Warn("lims sync: unknown container",
					zap.String("sample_id", ls.SampleID),
					zap.String("container", ls.ContainerName))
				skipped++
				continue
			}
			lc.fail(c, "lims sync", err)
			return
		}
		if _, _, err := lc.Samples.PlaceSample(c.Request.Context(), db.PlaceSampleInput{
			SampleID:    ls.SampleID,
			ContainerID: ctn.ID,
			Position:    ls.Position,
			Initials:    initials,
			UserName:    userName,
		}); err != nil {
			if errors.Is(err, db.ErrContainerFull) || errors.Is(err, db.ErrValidation) {
				lc.Log.Warn("lims sync: sample not placed",
					zap.String("sample_id", ls.SampleID), zap.Error(err))
				skipped++
				continue
			}
			lc.fail(c, "lims sync", err)
			return
		}
		imported++
	}

	if imported > 0 {
		lc.Cache.InvalidateContainers(c.Request.Context())
	}
	c.JSON(http.StatusOK, app.H{
		"success": true,
		"message": fmt.Sprintf("synced %d of %d samples from LIMS (%d skipped)", imported, len(incoming), skipped),
	})
}

// POST /api/lims/export-sample/:sample_id
func (lc *LIMSController) ExportSample(c *gin.Context) {
	sampleID := c.Param("sample_id")
	s, err := lc.Samples.GetSample(c.Request.Context(), sampleID)
	if err != nil {
		lc.fail(c, "export sample", err)
		return
	}

	if lc.LIMS == nil {
		c.JSON(http.StatusOK, app.H{"success": false, "message": notConfiguredMsg, "sample": s})
		return
	}

	out := lims.Sample{SampleID: s.SampleID, Status: lims.StatusStored}
	if s.IsCheckedOut {
		out.Status = lims.StatusCheckedOut
	}
	if s.Container != nil {
		out.ContainerName = s.Container.Name
	}
	if s.Position != nil {
		out.Position = *s.Position
	}
	if _, err := lc.LIMS.CreateSample(c.Request.Context(), out); err != nil {
		lc.fail(c, "export sample", err)
		return
	}

	c.JSON(http.StatusOK, app.H{
		"success": true,
		"message": fmt.Sprintf("sample %s exported to LIMS", s.SampleID),
		"sample":  s,
	})
}

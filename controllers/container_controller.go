package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/models"
)

type ContainerController struct{ *Srv }

func NewContainerController(s *Srv) *ContainerController { return &ContainerController{Srv: s} }

// GET /api/containers?archived=
func (cc *ContainerController) ListContainers(c *gin.Context) {
	archived, _ := strconv.ParseBool(c.DefaultQuery("archived", "false"))

	var cached []db.ContainerUsage
	if cc.Cache.GetContainers(c.Request.Context(), archived, &cached) {
		c.JSON(http.StatusOK, app.H{"data": cached})
		return
	}

	rows, err := cc.Containers.ListContainers(c.Request.Context(), archived)
	if err != nil {
		cc.fail(c, "list containers", err)
		return
	}
	cc.Cache.SetContainers(c.Request.Context(), archived, rows)
	c.JSON(http.StatusOK, app.H{"data": rows})
}

// GET /api/containers/:id
func (cc *ContainerController) GetContainer(c *gin.Context) {
	detail, err := cc.Containers.GetContainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.fail(c, "get container", err)
		return
	}
	c.JSON(http.StatusOK, app.H{"data": detail})
}

// POST /api/containers (admin)
func (cc *ContainerController) CreateContainer(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Type        string `json:"type"`
		Location    string `json:"location"`
		Layout      string `json:"layout"`
		Temperature string `json:"temperature"`
		Total       int    `json:"total"`
		Training    bool   `json:"training"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	ctn := &models.Container{
		Name:        in.Name,
		Type:        in.Type,
		Location:    in.Location,
		Layout:      in.Layout,
		Temperature: in.Temperature,
		Total:       in.Total,
		Training:    in.Training,
	}
	initials, userName := userFromRequest(c)
	if err := cc.Containers.CreateContainer(c.Request.Context(), ctn, initials, userName); err != nil {
		cc.fail(c, "create container", err)
		return
	}
	cc.Cache.InvalidateContainers(c.Request.Context())
	c.JSON(http.StatusCreated, app.H{"data": ctn})
}

// PUT /api/containers/:id (admin)
func (cc *ContainerController) UpdateContainer(c *gin.Context) {
	var in struct {
		Name        *string `json:"name"`
		Type        *string `json:"type"`
		Location    *string `json:"location"`
		Layout      *string `json:"layout"`
		Temperature *string `json:"temperature"`
		Total       *int    `json:"total"`
		Training    *bool   `json:"training"`
		Archived    *bool   `json:"archived"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Layout != nil {
		updates["layout"] = *in.Layout
	}
	if in.Temperature != nil {
		updates["temperature"] = *in.Temperature
	}
	if in.Total != nil {
		updates["total"] = *in.Total
	}
	if in.Training != nil {
		updates["training"] = *in.Training
	}
	if in.Archived != nil {
		updates["archived"] = *in.Archived
	}

	initials, userName := userFromRequest(c)
	ctn, err := cc.Containers.UpdateContainer(c.Request.Context(), c.Param("id"), updates, initials, userName)
	if err != nil {
		cc.fail(c, "update container", err)
		return
	}
	cc.Cache.InvalidateContainers(c.Request.Context())
	c.JSON(http.StatusOK, app.H{"data": ctn})
}

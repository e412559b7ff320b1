package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/controllers"
	"github.com/saga-aleeka/saga-store/db"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	sampleCtl := controllers.NewSampleController(s)
	containerCtl := controllers.NewContainerController(s)
	auditCtl := controllers.NewAuditController(s)
	limsCtl := controllers.NewLIMSController(s)

	adminMW := app.AdminOnly(a.Config, db.NewRepo(a.DB))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	samples := r.Group("/api/samples")
	{
		samples.GET("", sampleCtl.ListSamples)
		samples.POST("/checkout", sampleCtl.Checkout)
		samples.POST("/upsert", sampleCtl.Upsert)
		samples.GET("/:sample_id", sampleCtl.GetSample)
	}

	ctns := r.Group("/api/containers")
	{
		ctns.GET("", containerCtl.ListContainers)
		ctns.GET("/:id", containerCtl.GetContainer)
	}
	ctnsAdmin := r.Group("/api/containers", adminMW)
	{
		ctnsAdmin.POST("", containerCtl.CreateContainer)
		ctnsAdmin.PUT("/:id", containerCtl.UpdateContainer)
	}

	r.GET("/api/audit", auditCtl.ListAuditLogs)

	limsGroup := r.Group("/api/lims")
	{
		limsGroup.POST("/sync", limsCtl.Sync)
		limsGroup.POST("/export-sample/:sample_id", limsCtl.ExportSample)
	}
}

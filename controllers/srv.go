package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/cache"
	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/lims"
	"github.com/saga-aleeka/saga-store/models"
)

// Store interfaces narrow what each controller can touch and let tests
// substitute fakes. *db.Repo satisfies all of them.

type SampleStore interface {
	ListSamples(ctx context.Context, q db.SampleListQuery) (db.SampleListResult, error)
	GetSample(ctx context.Context, sampleID string) (*models.Sample, error)
	CheckoutSamples(ctx context.Context, sampleIDs []string, initials, userName string) (int, error)
	PlaceSample(ctx context.Context, in db.PlaceSampleInput) (*models.Sample, string, error)
}

type ContainerStore interface {
	ListContainers(ctx context.Context, archived bool) ([]db.ContainerUsage, error)
	GetContainer(ctx context.Context, id string) (*db.ContainerDetail, error)
	FindContainerByName(ctx context.Context, name string) (*models.Container, error)
	CreateContainer(ctx context.Context, c *models.Container, initials, userName string) error
	UpdateContainer(ctx context.Context, id string, updates map[string]any, initials, userName string) (*models.Container, error)
}

type AuditStore interface {
	ListAuditLogs(ctx context.Context, q db.AuditQuery) ([]models.AuditLog, error)
}

// Srv carries the shared dependencies for all controllers.
type Srv struct {
	Samples    SampleStore
	Containers ContainerStore
	Audit      AuditStore
	Cache      *cache.Store
	LIMS       lims.Adapter
	Log        *zap.Logger
	Cfg        app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Samples:    repo,
		Containers: repo,
		Audit:      repo,
		Cache:      cache.New(a.RDB, a.Config.CacheTTL),
		LIMS:       a.LIMS,
		Log:        a.Log,
		Cfg:        a.Config,
	}
}

// fail is the single place service errors become transport status codes.
// Internal causes go to the log; responses carry safe messages only.
func (s *Srv) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not_found"})
	case errors.Is(err, db.ErrAmbiguous):
		c.JSON(http.StatusConflict, app.H{"error": "ambiguous_sample_id"})
	case errors.Is(err, db.ErrContainerFull):
		c.JSON(http.StatusConflict, app.H{"error": "container_full"})
	case errors.Is(err, db.ErrConflict):
		c.JSON(http.StatusConflict, app.H{"error": "conflict"})
	case errors.Is(err, db.ErrValidation):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		s.Log.Warn(op+" timed out", zap.Error(err))
		c.JSON(http.StatusGatewayTimeout, app.H{"error": "timeout"})
	default:
		s.Log.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal_error"})
	}
}

// userFromRequest pulls the operator identity for audit entries. The admin
// middleware sets it from the token; otherwise the frontend passes headers.
func userFromRequest(c *gin.Context) (initials, name string) {
	if v, ok := c.Get("userInitials"); ok {
		initials, _ = v.(string)
	}
	if v, ok := c.Get("userName"); ok {
		name, _ = v.(string)
	}
	if initials == "" {
		initials = c.GetHeader("X-User-Initials")
	}
	if name == "" {
		name = c.GetHeader("X-User-Name")
	}
	return initials, name
}

// Package lims is the boundary to the vendor Laboratory Information
// Management System. The integration is optional: New returns a nil Adapter
// when no endpoint is configured, and callers must answer "not configured"
// instead of pretending a sync happened.
package lims

import (
	"context"
	"errors"
	"time"
)

// Sample is the cross-boundary sample shape. Containers are referenced by
// name here: the vendor knows nothing about local row ids.
type Sample struct {
	SampleID      string     `json:"sample_id"`
	ContainerName string     `json:"container_name,omitempty"`
	Position      string     `json:"position,omitempty"`
	Status        string     `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

type Container struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Type     string `json:"type,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// Sample statuses understood by the vendor.
const (
	StatusStored     = "stored"
	StatusCheckedOut = "checked_out"
)

type Adapter interface {
	FetchNewSamples(ctx context.Context, since time.Time) ([]Sample, error)
	CreateSample(ctx context.Context, s Sample) (*Sample, error)
	UpdateSampleStatus(ctx context.Context, sampleID, status string) (*Sample, error)
	GetSample(ctx context.Context, sampleID string) (*Sample, error)
	SyncContainer(ctx context.Context, c Container) (*Container, error)
}

// ErrNotFound means the vendor has no record of the sample.
var ErrNotFound = errors.New("lims: sample not found")

type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

// New builds the vendor client, or nil when the integration is not
// configured.
func New(cfg Config) Adapter {
	if cfg.APIURL == "" || cfg.APIKey == "" {
		return nil
	}
	return newClient(cfg)
}

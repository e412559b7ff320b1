package controllers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/saga-aleeka/saga-store/app"
	"github.com/saga-aleeka/saga-store/db"
	"github.com/saga-aleeka/saga-store/lims"
	"github.com/saga-aleeka/saga-store/models"
)

type fakeSampleStore struct {
	listRes db.SampleListResult
	listErr error

	sample *models.Sample
	getErr error
	gotGet string

	checkoutN   int
	checkoutErr error
	gotIDs      []string
	gotInitials string

	placeSample *models.Sample
	placeAction string
	placeErr    error
	gotPlace    db.PlaceSampleInput
}

func (f *fakeSampleStore) ListSamples(_ context.Context, q db.SampleListQuery) (db.SampleListResult, error) {
	return f.listRes, f.listErr
}

func (f *fakeSampleStore) GetSample(_ context.Context, sampleID string) (*models.Sample, error) {
	f.gotGet = sampleID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.sample, nil
}

func (f *fakeSampleStore) CheckoutSamples(_ context.Context, ids []string, initials, _ string) (int, error) {
	f.gotIDs = ids
	f.gotInitials = initials
	return f.checkoutN, f.checkoutErr
}

func (f *fakeSampleStore) PlaceSample(_ context.Context, in db.PlaceSampleInput) (*models.Sample, string, error) {
	f.gotPlace = in
	if f.placeErr != nil {
		return nil, "", f.placeErr
	}
	return f.placeSample, f.placeAction, nil
}

type fakeContainerStore struct {
	list    []db.ContainerUsage
	listErr error

	detail    *db.ContainerDetail
	detailErr error

	byName    map[string]*models.Container
	createErr error
	created   *models.Container

	updated    *models.Container
	updateErr  error
	gotUpdates map[string]any
}

func (f *fakeContainerStore) ListContainers(_ context.Context, archived bool) ([]db.ContainerUsage, error) {
	return f.list, f.listErr
}

func (f *fakeContainerStore) GetContainer(_ context.Context, id string) (*db.ContainerDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeContainerStore) FindContainerByName(_ context.Context, name string) (*models.Container, error) {
	if c, ok := f.byName[name]; ok {
		return c, nil
	}
	return nil, db.ErrNotFound
}

func (f *fakeContainerStore) CreateContainer(_ context.Context, c *models.Container, _, _ string) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = "ctn-created"
	f.created = c
	return nil
}

func (f *fakeContainerStore) UpdateContainer(_ context.Context, id string, updates map[string]any, _, _ string) (*models.Container, error) {
	f.gotUpdates = updates
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

type fakeAuditStore struct {
	logs   []models.AuditLog
	err    error
	gotQ   db.AuditQuery
	called bool
}

func (f *fakeAuditStore) ListAuditLogs(_ context.Context, q db.AuditQuery) ([]models.AuditLog, error) {
	f.called = true
	f.gotQ = q
	return f.logs, f.err
}

type fakeAdapter struct {
	fetched  []lims.Sample
	fetchErr error
	gotSince time.Time

	created   []lims.Sample
	createErr error
}

func (f *fakeAdapter) FetchNewSamples(_ context.Context, since time.Time) ([]lims.Sample, error) {
	f.gotSince = since
	return f.fetched, f.fetchErr
}

func (f *fakeAdapter) CreateSample(_ context.Context, s lims.Sample) (*lims.Sample, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, s)
	return &s, nil
}

func (f *fakeAdapter) UpdateSampleStatus(_ context.Context, sampleID, status string) (*lims.Sample, error) {
	return &lims.Sample{SampleID: sampleID, Status: status}, nil
}

func (f *fakeAdapter) GetSample(_ context.Context, sampleID string) (*lims.Sample, error) {
	return nil, lims.ErrNotFound
}

func (f *fakeAdapter) SyncContainer(_ context.Context, c lims.Container) (*lims.Container, error) {
	return &c, nil
}

func newTestSrv(samples SampleStore, containers ContainerStore, audit AuditStore, adapter lims.Adapter) *Srv {
	return &Srv{
		Samples:    samples,
		Containers: containers,
		Audit:      audit,
		Cache:      nil, // nil-safe: caching off in tests
		LIMS:       adapter,
		Log:        zap.NewNop(),
		Cfg:        app.Config{},
	}
}

func strPtr(s string) *string { return &s }

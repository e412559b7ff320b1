package lims

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

type client struct {
	base string
	key  string
	http *http.Client
}

func newClient(cfg Config) *client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		base: strings.TrimRight(cfg.APIURL, "/"),
		key:  cfg.APIKey,
		http: &http.Client{Timeout: timeout},
	}
}

// vendorSample is the wire shape the vendor speaks. mapVendorSample
// translates it into ours: the barcode is their primary business key, the
// numeric id a fallback.
type vendorSample struct {
	ID          string     `json:"id"`
	Barcode     string     `json:"barcode"`
	Container   string     `json:"container"`
	Position    string     `json:"position"`
	Status      string     `json:"status"`
	CreatedDate *time.Time `json:"created_date"`
}

func mapVendorSample(v vendorSample) Sample {
	sampleID := v.Barcode
	if sampleID == "" {
		sampleID = v.ID
	}
	return Sample{
		SampleID:      sampleID,
		ContainerName: v.Container,
		Position:      v.Position,
		Status:        v.Status,
		CreatedAt:     v.CreatedDate,
	}
}

func toVendorSample(s Sample) vendorSample {
	return vendorSample{
		Barcode:   s.SampleID,
		Container: s.ContainerName,
		Position:  s.Position,
		Status:    s.Status,
	}
}

func (c *client) FetchNewSamples(ctx context.Context, since time.Time) ([]Sample, error) {
	q := url.Values{"created_after": {since.UTC().Format(time.RFC3339)}}
	var rows []vendorSample
	if err := c.do(ctx, http.MethodGet, "/samples?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	out := make([]Sample, 0, len(rows))
	for _, v := range rows {
		out = append(out, mapVendorSample(v))
	}
	return out, nil
}

func (c *client) CreateSample(ctx context.Context, s Sample) (*Sample, error) {
	body := toVendorSample(s)
	if body.Status == "" {
		body.Status = StatusStored
	}
	var created vendorSample
	if err := c.do(ctx, http.MethodPost, "/samples", body, &created); err != nil {
		return nil, err
	}
	m := mapVendorSample(created)
	return &m, nil
}

func (c *client) UpdateSampleStatus(ctx context.Context, sampleID, status string) (*Sample, error) {
	var updated vendorSample
	path := "/samples/" + url.PathEscape(sampleID)
	if err := c.do(ctx, http.MethodPatch, path, map[string]string{"status": status}, &updated); err != nil {
		return nil, err
	}
	m := mapVendorSample(updated)
	return &m, nil
}

func (c *client) GetSample(ctx context.Context, sampleID string) (*Sample, error) {
	var row vendorSample
	path := "/samples/" + url.PathEscape(sampleID)
	if err := c.do(ctx, http.MethodGet, path, nil, &row); err != nil {
		return nil, err
	}
	m := mapVendorSample(row)
	return &m, nil
}

func (c *client) SyncContainer(ctx context.Context, ctn Container) (*Container, error) {
	var synced Container
	path := "/containers/" + url.PathEscape(ctn.Name)
	if err := c.do(ctx, http.MethodPut, path, ctn, &synced); err != nil {
		return nil, err
	}
	return &synced, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("lims: encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("lims: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lims: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("lims: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("lims: decode response: %w", err)
	}
	return nil
}

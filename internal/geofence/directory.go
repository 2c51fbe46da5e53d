package geofence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"geo-attendance/internal/model"
)

// HTTPDirectory fetches the office list from a remote JSON endpoint
// shaped as {"offices": [{"officeName": ..., "lat": ..., "lng": ...}]}.
type HTTPDirectory struct {
	url        string
	httpClient *http.Client
}

func NewHTTPDirectory(url string, timeout time.Duration) *HTTPDirectory {
	return &HTTPDirectory{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (d *HTTPDirectory) Offices(ctx context.Context) ([]model.Office, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("office directory error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Offices []model.Office `json:"offices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode offices: %w", err)
	}
	return payload.Offices, nil
}

// StaticDirectory serves a fixed office list.
type StaticDirectory struct {
	offices []model.Office
}

func NewStaticDirectory(offices []model.Office) *StaticDirectory {
	return &StaticDirectory{offices: offices}
}

func (d *StaticDirectory) Offices(context.Context) ([]model.Office, error) {
	out := make([]model.Office, len(d.offices))
	copy(out, d.offices)
	return out, nil
}

// LoadFileDirectory reads a YAML office list:
//
//	offices:
//	  - name: HQ
//	    lat: 12.9716
//	    lng: 77.5946
func LoadFileDirectory(path string) (*StaticDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read office file: %w", err)
	}
	var doc struct {
		Offices []model.Office `yaml:"offices"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse office file %s: %w", path, err)
	}
	for i, o := range doc.Offices {
		if o.Name == "" {
			return nil, fmt.Errorf("office file %s: entry %d has no name", path, i)
		}
	}
	return NewStaticDirectory(doc.Offices), nil
}

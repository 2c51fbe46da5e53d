package geofence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"geo-attendance/internal/model"
)

func TestHTTPDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"offices":[{"officeName":"HQ","lat":12.9716,"lng":77.5946},{"officeName":"Annex","lat":13,"lng":77.6}]}`))
	}))
	defer srv.Close()

	offices, err := NewHTTPDirectory(srv.URL, time.Second).Offices(context.Background())
	if err != nil {
		t.Fatalf("Offices: %v", err)
	}
	if len(offices) != 2 || offices[0].Name != "HQ" || offices[1].Lat != 13 {
		t.Fatalf("Offices = %+v", offices)
	}
}

func TestHTTPDirectoryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "script quota exceeded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewHTTPDirectory(srv.URL, time.Second).Offices(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestHTTPDirectoryTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPDirectory(srv.URL, 50*time.Millisecond).Offices(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("fetch was not bounded by the client timeout")
	}
}

func TestLoadFileDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.yaml")
	content := "offices:\n  - name: HQ\n    lat: 12.9716\n    lng: 77.5946\n  - name: Annex\n    lat: 13.0\n    lng: 77.6\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := LoadFileDirectory(path)
	if err != nil {
		t.Fatalf("LoadFileDirectory: %v", err)
	}
	offices, _ := dir.Offices(context.Background())
	if len(offices) != 2 || offices[0].Name != "HQ" || offices[0].Lng != 77.5946 {
		t.Fatalf("Offices = %+v", offices)
	}

	// Callers must not be able to mutate the directory.
	offices[0].Name = "changed"
	again, _ := dir.Offices(context.Background())
	if again[0].Name != "HQ" {
		t.Error("StaticDirectory leaked its backing slice")
	}
}

func TestLoadFileDirectoryRejectsUnnamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offices.yaml")
	os.WriteFile(path, []byte("offices:\n  - lat: 1\n    lng: 2\n"), 0o644)
	if _, err := LoadFileDirectory(path); err == nil {
		t.Fatal("expected error for office without name")
	}
}

func TestCachedDirectory(t *testing.T) {
	calls := 0
	fail := false
	next := directoryFunc(func(context.Context) ([]model.Office, error) {
		calls++
		if fail {
			return nil, errors.New("down")
		}
		return []model.Office{{Name: "HQ"}}, nil
	})

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	cache := NewCachedDirectory(next, time.Minute)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Offices(ctx)
	cache.Offices(ctx)
	if calls != 1 {
		t.Fatalf("calls = %d after two reads within ttl, want 1", calls)
	}

	now = now.Add(2 * time.Minute)
	fail = true
	if _, err := cache.Offices(ctx); err == nil {
		t.Fatal("expected error after expiry with failing source")
	}

	fail = false
	if _, err := cache.Offices(ctx); err != nil {
		t.Fatalf("Offices: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (failures are not cached)", calls)
	}

	cache.Invalidate()
	cache.Offices(ctx)
	if calls != 4 {
		t.Fatalf("calls = %d after Invalidate, want 4", calls)
	}
}

func TestCachedDirectoryZeroTTL(t *testing.T) {
	calls := 0
	next := directoryFunc(func(context.Context) ([]model.Office, error) {
		calls++
		return nil, nil
	})
	cache := NewCachedDirectory(next, 0)
	cache.Offices(context.Background())
	cache.Offices(context.Background())
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 with caching disabled", calls)
	}
}

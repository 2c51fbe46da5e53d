package i18n

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMain(m *testing.M) {
	Init("en")
	m.Run()
}

func TestT(t *testing.T) {
	ctx := context.Background()
	if got := T(ctx, "checkin.not_found"); got != "Check-in not found" {
		t.Errorf("T(en) = %q", got)
	}
	if got := T(WithLocale(ctx, "hi"), "checkin.not_found"); got != "चेक-इन नहीं मिला" {
		t.Errorf("T(hi) = %q", got)
	}
	if got := T(ctx, "zone.assigned", map[string]any{"Zone": "North"}); got != `Team assigned successfully to zone "North"` {
		t.Errorf("T with template = %q", got)
	}
	if got := T(ctx, "no.such.message"); got != "no.such.message" {
		t.Errorf("unknown id = %q, want the id back", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"hi-IN,hi;q=0.9,en;q=0.8", "hi"},
		{"en-US", "en"},
		{"fr-FR", "en"},
		{"not a header;;", "en"},
	}
	for _, tt := range tests {
		if got := Match(tt.header); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	read := func(name string) map[string]string {
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return m
	}
	en, hi := read("en.json"), read("hi.json")
	for k := range en {
		if _, ok := hi[k]; !ok {
			t.Errorf("hi.json is missing %q", k)
		}
	}
	for k := range hi {
		if _, ok := en[k]; !ok {
			t.Errorf("en.json is missing %q", k)
		}
	}
}

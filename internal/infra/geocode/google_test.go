package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GoogleGeocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGoogleGeocoder("test-key")
	g.baseURL = srv.URL
	return g
}

func TestGeocode_OK(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" || r.URL.Query().Get("address") != "12 Rue Didouche Mourad, Alger" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":36.7665,"lng":3.0553}}}]}`))
	})

	lat, lng, err := g.Geocode(context.Background(), "12 Rue Didouche Mourad, Alger")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lat != 36.7665 || lng != 3.0553 {
		t.Fatalf("unexpected coordinates %v,%v", lat, lng)
	}
}

func TestGeocode_ZeroResults(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	if _, _, err := g.Geocode(context.Background(), "nowhere"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestGeocode_Denied(t *testing.T) {
	g := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key","results":[]}`))
	})

	_, _, err := g.Geocode(context.Background(), "Oran")
	if err == nil || errors.Is(err, ErrNoResults) {
		t.Fatalf("expected request error, got %v", err)
	}
}

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testNominatim(server *httptest.Server) *Nominatim {
	n := NewNominatim("test-agent")
	n.baseURL = server.URL
	n.client = server.Client()
	return n
}

func TestNominatimGeocode(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat":"5.6509","lon":"-0.1870"}]`))
	}))
	defer server.Close()

	point, err := testNominatim(server).Geocode(context.Background(), "1 Campus Drive", "Legon")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if point == nil || point.Latitude != 5.6509 || point.Longitude != -0.1870 {
		t.Errorf("unexpected point: %+v", point)
	}
	if gotQuery != "1 Campus Drive, Legon" {
		t.Errorf("expected the city appended to the query, got %q", gotQuery)
	}
	if gotAgent != "test-agent" {
		t.Errorf("expected the configured user agent, got %q", gotAgent)
	}
}

func TestNominatimNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	point, err := testNominatim(server).Geocode(context.Background(), "nowhere", "")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if point != nil {
		t.Errorf("expected no match reported as a nil point, got %+v", point)
	}
}

func TestNominatimErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	if _, err := testNominatim(server).Geocode(context.Background(), "anywhere", ""); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

package serp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/seopilot/seopilot/internal/errors"
)

func newOracle(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "/api/serp/ranking", WithHTTPClient(server.Client()))
}

func TestClient_Observe_Success(t *testing.T) {
	client := newOracle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/serp/ranking" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "psychiatrist orlando" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"position": 7,
			"url": "https://www.empathyhealthclinic.com/psychiatrist-orlando/",
			"competitor_positions": {"orlandohealth.com": 2, "mymindcarecenter.com": null}
		}`))
	})

	obs, err := client.Observe(context.Background(), "psychiatrist orlando")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Keyword != "psychiatrist orlando" {
		t.Errorf("Keyword = %q", obs.Keyword)
	}
	if pos, ok := obs.PositionValue(); !ok || pos != 7 {
		t.Errorf("PositionValue() = %d, %v", pos, ok)
	}
	if obs.URLValue() != "https://www.empathyhealthclinic.com/psychiatrist-orlando/" {
		t.Errorf("URLValue() = %q", obs.URLValue())
	}
	if pos, ok := obs.CompetitorPosition("orlandohealth.com"); !ok || pos != 2 {
		t.Errorf("orlandohealth.com = %d, %v", pos, ok)
	}
	if _, ok := obs.CompetitorPosition("mymindcarecenter.com"); ok {
		t.Error("null competitor position should be unranked")
	}
	if _, ok := obs.CompetitorPosition("healingpsychiatryflorida.com"); ok {
		t.Error("missing competitor should be unranked")
	}
}

func TestClient_Observe_Unranked(t *testing.T) {
	client := newOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"position": null, "url": null, "competitor_positions": {}}`))
	})

	obs, err := client.Observe(context.Background(), "telepsychiatry orlando")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.Ranked() {
		t.Error("expected unranked observation")
	}
	if obs.URL != nil {
		t.Errorf("URL = %v, want nil", *obs.URL)
	}
}

func TestClient_Observe_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "upstream quota exceeded", http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"position": "seven"`))
			},
		},
		{
			name: "non-positive position",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"position": 0}`))
			},
		},
		{
			name: "fractional position",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"position": 4.5}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newOracle(t, tt.handler)

			_, err := client.Observe(context.Background(), "bipolar psychiatrist orlando")
			var obsErr *errors.ObservationError
			if !errors.As(err, &obsErr) {
				t.Fatalf("error = %v, want *ObservationError", err)
			}
			if obsErr.Keyword != "bipolar psychiatrist orlando" {
				t.Errorf("Keyword = %q", obsErr.Keyword)
			}
			if obsErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", obsErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClient_Observe_EmptyKeyword(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "/api/serp/ranking")

	_, err := client.Observe(context.Background(), "  ")
	var obsErr *errors.ObservationError
	if !errors.As(err, &obsErr) {
		t.Fatalf("error = %v, want *ObservationError", err)
	}
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Error("empty keyword should be a validation failure")
	}
}

func TestClient_Observe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, "/api/serp/ranking", WithTimeout(time.Second))
	_, err := client.Observe(context.Background(), "psychiatry orlando")
	var obsErr *errors.ObservationError
	if !errors.As(err, &obsErr) {
		t.Fatalf("error = %v, want *ObservationError", err)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	t.Run("any response is healthy", func(t *testing.T) {
		client := newOracle(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("q") != "test" {
				t.Errorf("health probe q = %q", r.URL.Query().Get("q"))
			}
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		if err := client.HealthCheck(context.Background(), 2*time.Second); err != nil {
			t.Errorf("HealthCheck() = %v", err)
		}
	})

	t.Run("closed server is unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := NewClient(url, "/api/serp/ranking")
		err := client.HealthCheck(context.Background(), 2*time.Second)
		if !errors.Is(err, errors.ErrOracleUnreachable) {
			t.Errorf("HealthCheck() = %v, want ErrOracleUnreachable", err)
		}
	})

	t.Run("slow server times out", func(t *testing.T) {
		release := make(chan struct{})
		client := newOracle(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		err := client.HealthCheck(context.Background(), 50*time.Millisecond)
		if !errors.Is(err, errors.ErrOracleUnreachable) {
			t.Errorf("HealthCheck() = %v, want ErrOracleUnreachable", err)
		}
	})
}

func TestClient_Observe_WholeFloatPositions(t *testing.T) {
	client := newOracle(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"position": 4.0, "url": "https://empathyhealthclinic.com/", "competitor_positions": {"a.com": 2.0, "b.com": 3.5}}`))
	})

	obs, err := client.Observe(context.Background(), "psychiatrist orlando")
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	if pos, ok := obs.PositionValue(); !ok || pos != 4 {
		t.Errorf("PositionValue() = %d, %v, want 4, true", pos, ok)
	}
	if pos, ok := obs.CompetitorPosition("a.com"); !ok || pos != 2 {
		t.Errorf("CompetitorPosition(a.com) = %d, %v, want 2, true", pos, ok)
	}
	if _, ok := obs.CompetitorPosition("b.com"); ok {
		t.Error("fractional competitor position should load as unranked")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://localhost:5000/", "/api/serp/ranking")
	if got, want := client.endpoint, "http://localhost:5000/api/serp/ranking"; got != want {
		t.Errorf("endpoint = %q, want %q", got, want)
	}
}

func TestNewClient_TimeoutLeavesSuppliedClientAlone(t *testing.T) {
	shared := &http.Client{}
	client := NewClient("http://localhost:5000", "/api/serp/ranking",
		WithHTTPClient(shared), WithTimeout(3*time.Second))

	if shared.Timeout != 0 {
		t.Errorf("supplied client Timeout = %v, want unchanged", shared.Timeout)
	}
	if client.httpClient == shared || client.httpClient.Timeout != 3*time.Second {
		t.Errorf("client timeout = %v, want 3s on a copy", client.httpClient.Timeout)
	}

	client = NewClient("http://localhost:5000", "/api/serp/ranking",
		WithTimeout(3*time.Second), WithHTTPClient(nil))
	if client.httpClient == nil || client.httpClient.Timeout != 3*time.Second {
		t.Errorf("nil client should fall back to a default with the configured timeout")
	}

	client = NewClient("http://localhost:5000", "/api/serp/ranking")
	if client.httpClient.Timeout != defaultTimeout {
		t.Errorf("default Timeout = %v, want %v", client.httpClient.Timeout, defaultTimeout)
	}
}

func TestObservation_Clone(t *testing.T) {
	pos := 4
	u := "https://example.com/a/"
	comp := 9
	orig := Observation{
		Keyword:     "k",
		Position:    &pos,
		URL:         &u,
		Competitors: map[string]*int{"a.com": &comp, "b.com": nil},
	}

	c := orig.Clone()
	*c.Position = 1
	*c.URL = "changed"
	*c.Competitors["a.com"] = 1

	if *orig.Position != 4 || *orig.URL != "https://example.com/a/" || *orig.Competitors["a.com"] != 9 {
		t.Error("Clone must not share pointers with the original")
	}
	if _, ok := c.Competitors["b.com"]; !ok {
		t.Error("Clone must keep unranked competitors")
	}
}

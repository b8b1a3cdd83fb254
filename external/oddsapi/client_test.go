package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/platform/resilience"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

const sampleEvents = `[
  {
    "id": "e1",
    "sport_key": "basketball_euroleague",
    "sport_title": "Euroleague",
    "commence_time": "2025-10-02T16:30:00Z",
    "home_team": "Olympiacos Piraeus",
    "away_team": "Panathinaikos Athens",
    "bookmakers": [
      {
        "key": "unibet_eu",
        "title": "Unibet",
        "last_update": "2025-10-01T10:00:00Z",
        "markets": [
          {"key": "h2h", "outcomes": [
            {"name": "Panathinaikos Athens", "price": 1.95},
            {"name": "Olympiacos Piraeus", "price": 1.85}
          ]}
        ]
      }
    ]
  },
  {
    "id": "e2",
    "sport_key": "basketball_euroleague",
    "commence_time": "not-a-date",
    "home_team": "Real Madrid",
    "away_team": "Barcelona",
    "bookmakers": []
  }
]`

func TestClient_FetchEvents(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleEvents))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL + "/v4", APIKey: "secret"})
	events, err := client.FetchEvents(context.Background(), "basketball_euroleague")
	if err != nil {
		t.Fatalf("FetchEvents error: %v", err)
	}

	if gotPath.Load() != "/v4/sports/basketball_euroleague/odds" {
		t.Fatalf("unexpected path %v", gotPath.Load())
	}
	query := gotQuery.Load().(url.Values)
	for key, want := range map[string]string{
		"apiKey":     "secret",
		"regions":    "eu",
		"markets":    "h2h",
		"oddsFormat": "decimal",
	} {
		if got := query[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("query %s=%v, want %s", key, got, want)
		}
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	first := events[0]
	if first.HomeTeam != "Olympiacos Piraeus" || first.CommenceTime.IsZero() {
		t.Fatalf("unexpected first event %+v", first)
	}
	market, ok := first.HeadToHead()
	if !ok || len(market.Outcomes) != 2 || market.Outcomes[1].Price != 1.85 {
		t.Fatalf("unexpected h2h market %+v", market)
	}
	if !events[1].CommenceTime.IsZero() {
		t.Fatalf("expected zero commence time for unparsable value")
	}
	if _, ok := events[1].HeadToHead(); ok {
		t.Fatalf("expected no h2h market without bookmakers")
	}
}

func TestClient_FetchEvents_RequiresSportKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(ClientConfig{}).FetchEvents(context.Background(), " ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestNewClient_DoesNotMutateCallerHTTPClient(t *testing.T) {
	t.Parallel()

	shared := &http.Client{}
	client := NewClient(ClientConfig{HTTPClient: shared})

	if shared.Timeout != 0 {
		t.Fatalf("caller client timeout changed to %s", shared.Timeout)
	}
	if client.httpClient == shared {
		t.Fatal("expected a copy of the caller client")
	}
	if client.httpClient.Timeout != 20*time.Second {
		t.Fatalf("expected default timeout, got %s", client.httpClient.Timeout)
	}
}

func TestClient_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid apiKey=secret"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret", MaxRetries: 3})
	_, err := client.FetchEvents(context.Background(), "basketball_euroleague")
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("4xx should not be classified as dependency unavailable: %v", err)
	}
}

func TestClient_TransientFailuresOpenCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		APIKey:  "secret",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	_, err := client.FetchEvents(context.Background(), "basketball_euroleague")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	_, err = client.FetchEvents(context.Background(), "basketball_euroleague")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit rejection, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected open circuit to skip the provider, got %d calls", calls.Load())
	}
}

func TestRedaction(t *testing.T) {
	t.Parallel()

	if got := redactAPIURL("https://api.example/v4/sports/x/odds?apiKey=secret&regions=eu"); strings.Contains(got, "secret") {
		t.Fatalf("api key leaked: %s", got)
	}
	if got := sanitizeSensitiveText(`Get "https://api.example?apiKey=abc": timeout`, ""); strings.Contains(got, "abc") {
		t.Fatalf("api key leaked: %s", got)
	}
}

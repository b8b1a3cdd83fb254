package krepsinis_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/schedule-odds/external/krepsinis"
	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	"github.com/riskibarqy/schedule-odds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/schedule-odds/internal/usecase"
)

type siteStub struct {
	mu       sync.RWMutex
	pages    map[string][]byte
	failPage atomic.Value
}

func (s *siteStub) page(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.pages[key]
	return body, ok
}

func (s *siteStub) setPage(key string, body []byte) {
	s.mu.Lock()
	s.pages[key] = body
	s.mu.Unlock()
}

func newSiteStub(t *testing.T) *siteStub {
	t.Helper()
	read := func(name string) []byte {
		body, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("read fixture %s: %v", name, err)
		}
		return body
	}
	s := &siteStub{pages: map[string][]byte{
		"1": read("schedule_page1.html"),
		"2": read("schedule_page2.html"),
	}}
	s.failPage.Store("")
	return s
}

// relay serves the fixture for the page requested in the forwarded target.
func (s *siteStub) relay() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, err := url.Parse(r.URL.Query().Get("u"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		page := target.Query().Get("page")
		if page == s.failPage.Load().(string) {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		body, ok := s.page(page)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	})
}

func newPipeline(t *testing.T, site *siteStub, clock func() time.Time) (*usecase.ScheduleService, *memory.ScheduleRepository) {
	t.Helper()

	primary := httptest.NewServer(site.relay())
	t.Cleanup(primary.Close)
	secondary := httptest.NewServer(site.relay())
	t.Cleanup(secondary.Close)

	relays, err := krepsinis.ParseRelays([]string{primary.URL + "/?u={url}", secondary.URL + "/fetch?u={url}"})
	if err != nil {
		t.Fatalf("ParseRelays error: %v", err)
	}
	client := krepsinis.NewClient(krepsinis.ClientConfig{
		ScheduleURL: krepsinis.DefaultScheduleURL,
		Fetcher:     krepsinis.NewFetcher(krepsinis.FetcherConfig{Relays: relays, AttemptTimeout: 2 * time.Second}),
	})

	repo := memory.NewScheduleRepository()
	acquirer := usecase.NewScheduleAcquirer(client, usecase.ScheduleAcquirerConfig{Clock: clock})
	return usecase.NewScheduleService(repo, acquirer, usecase.ScheduleServiceConfig{Clock: clock}), repo
}

func TestPipeline_TwoPagesPersistAndGroup(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	svc, repo := newPipeline(t, newSiteStub(t), func() time.Time { return now })

	page, err := svc.FetchSchedule(context.Background(), false)
	if err != nil {
		t.Fatalf("FetchSchedule error: %v", err)
	}
	if len(page.Games) != 14 {
		t.Fatalf("expected 14 games, got %d", len(page.Games))
	}
	if page.Games[0].HomeTeam != "Žalgiris" || page.Games[13].Date != "2025-10-09 18:30" {
		t.Fatalf("expected page order, got first=%s last date=%s", page.Games[0].HomeTeam, page.Games[13].Date)
	}

	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(stored) != 14 {
		t.Fatalf("expected 14 stored games, got %d", len(stored))
	}

	days := schedule.GroupByDate(stored)
	wantDates := []string{"2025-10-02 18:00", "2025-10-03 18:00", "2025-10-07 19:00", "2025-10-09 18:30"}
	if len(days) != len(wantDates) {
		t.Fatalf("expected %d days, got %d", len(wantDates), len(days))
	}
	for i, want := range wantDates {
		if days[i].Date != want {
			t.Fatalf("day %d: expected %s, got %s", i, want, days[i].Date)
		}
	}
	if len(days[3].Games) != 5 {
		t.Fatalf("expected 5 games on last day, got %d", len(days[3].Games))
	}
}

func TestPipeline_FailedPageKeepsPreviousSnapshot(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	site := newSiteStub(t)
	svc, repo := newPipeline(t, site, func() time.Time { return now })

	if _, err := svc.FetchSchedule(context.Background(), false); err != nil {
		t.Fatalf("initial FetchSchedule error: %v", err)
	}

	first, _ := site.page("1")
	site.setPage("1", bytes.Replace(first, []byte(`?page=2">&raquo;`), []byte(`?page=3">&raquo;`), 1))
	site.failPage.Store("3")
	now = now.Add(7 * time.Hour)

	_, err := svc.FetchSchedule(context.Background(), false)
	if err == nil {
		t.Fatalf("expected acquisition error")
	}
	if !krepsinis.IsFetchExhausted(err) {
		t.Fatalf("expected exhausted relays error, got %v", err)
	}
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}

	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(stored) != 14 {
		t.Fatalf("expected previous snapshot of 14 games, got %d", len(stored))
	}
}

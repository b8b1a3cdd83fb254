package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/schedule-odds/internal/domain/schedule"
	schedulemock "github.com/riskibarqy/schedule-odds/internal/mocks/domain/schedule"
	"github.com/stretchr/testify/mock"
)

func pageOf(page, total int, homes ...string) schedule.Page {
	games := make([]schedule.Game, 0, len(homes))
	for _, home := range homes {
		games = append(games, schedule.Game{
			Date:     "2025-10-02 18:00",
			Time:     "18:00",
			HomeTeam: home,
			AwayTeam: "Away " + home,
			League:   "Eurolyga",
		})
	}
	return schedule.Page{Games: games, CurrentPage: page, TotalPages: total}
}

func TestScheduleAcquirer_FetchAll_ConcatenatesInPageOrder(t *testing.T) {
	t.Parallel()

	source := schedulemock.NewSource(t)
	source.On("FetchPage", mock.Anything, 1).Return(pageOf(1, 3, "A", "B"), nil).Once()
	source.On("FetchPage", mock.Anything, 2).
		After(30*time.Millisecond).
		Return(pageOf(2, 3, "C"), nil).
		Once()
	source.On("FetchPage", mock.Anything, 3).Return(pageOf(3, 3, "D", "E"), nil).Once()

	acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{})
	games, err := acquirer.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	want := []string{"A", "B", "C", "D", "E"}
	if len(games) != len(want) {
		t.Fatalf("expected %d games, got %d", len(want), len(games))
	}
	for i, home := range want {
		if games[i].HomeTeam != home {
			t.Fatalf("game %d: expected %s, got %s", i, home, games[i].HomeTeam)
		}
	}
}

func TestScheduleAcquirer_FetchAll_MemoizesWithClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	source := schedulemock.NewSource(t)
	source.On("FetchPage", mock.Anything, 1).Return(pageOf(1, 1, "A"), nil).Twice()

	acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{
		MemoTTL: 5 * time.Minute,
		Clock:   func() time.Time { return now },
	})

	first, err := acquirer.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("first FetchAll error: %v", err)
	}
	first[0].HomeTeam = "mutated"

	now = now.Add(4 * time.Minute)
	second, err := acquirer.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("second FetchAll error: %v", err)
	}
	if second[0].HomeTeam != "A" {
		t.Fatalf("memoized games must not be shared with callers, got %s", second[0].HomeTeam)
	}

	now = now.Add(time.Minute)
	if _, err := acquirer.FetchAll(context.Background()); err != nil {
		t.Fatalf("third FetchAll error: %v", err)
	}
}

func TestScheduleAcquirer_FetchAll_SurvivesFirstCallerCancel(t *testing.T) {
	t.Parallel()

	fetching := make(chan struct{})
	release := make(chan struct{})
	var fetchErr error
	source := schedulemock.NewSource(t)
	source.On("FetchPage", mock.Anything, 1).
		Run(func(args mock.Arguments) {
			close(fetching)
			<-release
			fetchErr = args.Get(0).(context.Context).Err()
		}).
		Return(pageOf(1, 1, "A"), nil).
		Once()

	acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{MemoTTL: 5 * time.Minute})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := acquirer.FetchAll(firstCtx)
		firstErr <- err
	}()
	<-fetching

	type result struct {
		games []schedule.Game
		err   error
	}
	second := make(chan result, 1)
	go func() {
		games, err := acquirer.FetchAll(context.Background())
		second <- result{games: games, err: err}
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller: expected context.Canceled, got %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	if got.err != nil {
		t.Fatalf("second caller error: %v", got.err)
	}
	if len(got.games) != 1 || got.games[0].HomeTeam != "A" {
		t.Fatalf("unexpected games %+v", got.games)
	}
	if fetchErr != nil {
		t.Fatalf("page fetch saw cancelled context: %v", fetchErr)
	}
}

func TestScheduleAcquirer_FetchAll_AnyPageFailureFailsWholeCall(t *testing.T) {
	t.Parallel()

	pageErr := errors.New("all relays failed for page 3")
	source := schedulemock.NewSource(t)
	source.On("FetchPage", mock.Anything, 1).Return(pageOf(1, 3, "A"), nil).Twice()
	source.On("FetchPage", mock.Anything, 2).Return(pageOf(2, 3, "B"), nil).Maybe()
	source.On("FetchPage", mock.Anything, 3).Return(schedule.Page{}, pageErr).Twice()

	acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{})
	games, err := acquirer.FetchAll(context.Background())
	if !errors.Is(err, pageErr) {
		t.Fatalf("expected page error, got %v", err)
	}
	if games != nil {
		t.Fatalf("expected no partial result, got %d games", len(games))
	}

	if _, err := acquirer.FetchAll(context.Background()); !errors.Is(err, pageErr) {
		t.Fatalf("failures must not be memoized, got %v", err)
	}
}

func TestScheduleAcquirer_FetchPage(t *testing.T) {
	t.Parallel()

	source := schedulemock.NewSource(t)
	source.On("FetchPage", mock.Anything, 2).Return(schedule.Page{CurrentPage: 2, TotalPages: 4}, nil).Once()

	acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{})
	page, err := acquirer.FetchPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchPage error: %v", err)
	}
	if page.TotalPages != 4 || page.Games == nil {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := acquirer.FetchPage(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type stubSharedMemo struct {
	games  []schedule.Game
	stored []schedule.Game
}

func (m *stubSharedMemo) Load(context.Context) ([]schedule.Game, bool, error) {
	return m.games, m.games != nil, nil
}

func (m *stubSharedMemo) Store(_ context.Context, games []schedule.Game) error {
	m.stored = games
	return nil
}

func TestScheduleAcquirer_SharedMemo(t *testing.T) {
	t.Parallel()

	t.Run("hit skips the source", func(t *testing.T) {
		t.Parallel()
		source := schedulemock.NewSource(t)
		memo := &stubSharedMemo{games: pageOf(1, 1, "Shared").Games}
		acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{SharedMemo: memo})

		games, err := acquirer.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("FetchAll error: %v", err)
		}
		if len(games) != 1 || games[0].HomeTeam != "Shared" {
			t.Fatalf("unexpected games %+v", games)
		}
	})

	t.Run("miss stores the scrape", func(t *testing.T) {
		t.Parallel()
		source := schedulemock.NewSource(t)
		source.On("FetchPage", mock.Anything, 1).Return(pageOf(1, 1, "A"), nil).Once()
		memo := &stubSharedMemo{}
		acquirer := NewScheduleAcquirer(source, ScheduleAcquirerConfig{SharedMemo: memo})

		if _, err := acquirer.FetchAll(context.Background()); err != nil {
			t.Fatalf("FetchAll error: %v", err)
		}
		if len(memo.stored) != 1 {
			t.Fatalf("expected scrape to be stored in shared memo")
		}
	})
}

package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-board/internal/domain"
	"github.com/spec-kit/ticket-board/internal/events"
	"github.com/spec-kit/ticket-board/internal/observability"
	"github.com/spec-kit/ticket-board/internal/preferences"
	"github.com/spec-kit/ticket-board/internal/source"
	apperrors "github.com/spec-kit/ticket-board/pkg/util/errorutil"
)

type fetcherFunc func(ctx context.Context) (source.Snapshot, error)

func (f fetcherFunc) Fetch(ctx context.Context) (source.Snapshot, error) {
	return f(ctx)
}

func sampleSnapshot() source.Snapshot {
	return source.Snapshot{
		Tickets: []domain.Ticket{
			{ID: "1", Title: "B", Status: domain.TicketStatusTodo, Priority: domain.PriorityHigh, UserID: "u1"},
			{ID: "2", Title: "A", Status: domain.TicketStatusDone, Priority: domain.PriorityLow, UserID: "u2"},
		},
		Users: []domain.User{{ID: "u1", Name: "Alice"}, {ID: "u2", Name: "Bob"}},
	}
}

type harness struct {
	svc        *BoardService
	store      *preferences.MemoryStore
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	fetches    *atomic.Int32

	mu     sync.Mutex
	events []events.Event
}

func (h *harness) recorded() []events.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]events.Event{}, h.events...)
}

func newHarness(t *testing.T, store *preferences.MemoryStore, fetch fetcherFunc) *harness {
	t.Helper()
	if store == nil {
		store = preferences.NewMemoryStore()
	}
	h := &harness{
		store:      store,
		metrics:    observability.NewMetrics(),
		dispatcher: events.NewInMemoryDispatcher(),
		fetches:    &atomic.Int32{},
	}
	record := func(_ context.Context, e events.Event) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, e)
		return nil
	}
	for _, typ := range []events.EventType{events.EventDataLoaded, events.EventDataLoadFailed, events.EventPreferenceChanged} {
		h.dispatcher.Subscribe(typ, record)
	}

	counted := fetcherFunc(func(ctx context.Context) (source.Snapshot, error) {
		h.fetches.Add(1)
		return fetch(ctx)
	})
	h.svc = NewBoardService(context.Background(), BoardDependencies{
		Fetcher:     counted,
		Preferences: preferences.NewAdapter(store, zap.NewNop()),
		Dispatcher:  h.dispatcher,
		Metrics:     h.metrics,
		Logger:      zap.NewNop(),
	})
	return h
}

// =====================================
// Loading
// =====================================

func TestBoardService_LoadFetchesExactlyOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return sampleSnapshot(), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.svc.Load(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), h.fetches.Load())
	assert.Len(t, h.svc.Tickets(), 2)
	assert.Len(t, h.svc.Users(), 2)
	assert.Equal(t, int64(1), h.metrics.Snapshot().Fetches["ok"])

	recorded := h.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.EventDataLoaded, recorded[0].Type)
	assert.Equal(t, events.DataLoadedPayload{Tickets: 2, Users: 2, Revision: 1}, recorded[0].Payload)
}

func TestBoardService_LoadFailureLeavesEmptyBoard(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return source.Snapshot{}, errors.New("connection refused")
	})

	err := h.svc.Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.Error(t, h.svc.Load(context.Background()), "failure is not retried")
	assert.Equal(t, int32(1), h.fetches.Load())

	view := h.svc.View()
	assert.Equal(t, 0, view.TicketCount())
	assert.Empty(t, view.Groups)

	recorded := h.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, events.EventDataLoadFailed, recorded[0].Type)
}

func TestBoardService_DiscardsResultAfterCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		cancel()
		return sampleSnapshot(), nil
	})

	err := h.svc.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.svc.Tickets())
	assert.Equal(t, int64(1), h.metrics.Snapshot().Fetches["discarded"])
	assert.Empty(t, h.recorded())
}

func TestBoardService_StartClosesLoaded(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return sampleSnapshot(), nil
	})

	h.svc.Start(context.Background())
	<-h.svc.Loaded()
	assert.Len(t, h.svc.Tickets(), 2)
}

// =====================================
// Views
// =====================================

func TestBoardService_ViewUsesStoredPreferences(t *testing.T) {
	t.Parallel()

	store := preferences.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), preferences.KeyGrouping, "status"))
	require.NoError(t, store.Set(context.Background(), preferences.KeyOrdering, "priority"))
	require.NoError(t, store.Set(context.Background(), preferences.KeyDarkMode, "true"))

	h := newHarness(t, store, func(context.Context) (source.Snapshot, error) {
		return sampleSnapshot(), nil
	})
	require.NoError(t, h.svc.Load(context.Background()))

	state := h.svc.State()
	assert.True(t, state.DarkMode)
	assert.Equal(t, "dark", state.Theme())

	view := h.svc.View()
	assert.Equal(t, domain.GroupByStatus, view.Grouping)
	assert.Equal(t, []string{"Backlog", "Todo", "In progress", "Done", "Cancelled"}, view.Labels())
}

func TestBoardService_ViewIsMemoized(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return sampleSnapshot(), nil
	})
	require.NoError(t, h.svc.Load(context.Background()))

	first := h.svc.View()
	second := h.svc.View()
	assert.Equal(t, first, second)

	snap := h.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.ViewMisses)
	assert.Equal(t, int64(1), snap.ViewHits)

	_, err := h.svc.SetOrdering(context.Background(), domain.OrderByPriority)
	require.NoError(t, err)
	h.svc.View()
	assert.Equal(t, int64(2), h.metrics.Snapshot().ViewMisses)
}

func TestBoardService_ViewWithDoesNotChangeSelections(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return sampleSnapshot(), nil
	})
	require.NoError(t, h.svc.Load(context.Background()))

	view := h.svc.ViewWith(domain.GroupByPriority, domain.OrderByPriority)
	assert.Equal(t, []string{"1", "3"}, view.Labels())
	assert.Equal(t, domain.GroupByUser, h.svc.State().Grouping)
	_, ok, _ := h.store.Get(context.Background(), preferences.KeyGrouping)
	assert.False(t, ok)
}

// =====================================
// Selections
// =====================================

func TestBoardService_ToggleThemePersists(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return source.Snapshot{}, nil
	})

	state := h.svc.ToggleTheme(context.Background())
	assert.True(t, state.DarkMode)
	value, ok, err := h.store.Get(context.Background(), preferences.KeyDarkMode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", value)

	state = h.svc.ToggleTheme(context.Background())
	assert.False(t, state.DarkMode)
	value, _, _ = h.store.Get(context.Background(), preferences.KeyDarkMode)
	assert.Equal(t, "false", value)

	recorded := h.recorded()
	require.Len(t, recorded, 2)
	assert.Equal(t, events.PreferenceChangedPayload{Key: preferences.KeyDarkMode, OldValue: "false", NewValue: "true"}, recorded[0].Payload)
}

func TestBoardService_SetGroupingAndOrdering(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return source.Snapshot{}, nil
	})
	ctx := context.Background()

	state, err := h.svc.SetGrouping(ctx, domain.GroupByPriority)
	require.NoError(t, err)
	assert.Equal(t, domain.GroupByPriority, state.Grouping)

	state, err = h.svc.SetOrdering(ctx, domain.OrderByPriority)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderByPriority, state.Ordering)

	grouping, _, _ := h.store.Get(ctx, preferences.KeyGrouping)
	ordering, _, _ := h.store.Get(ctx, preferences.KeyOrdering)
	assert.Equal(t, "priority", grouping)
	assert.Equal(t, "priority", ordering)

	// Re-selecting the current mode neither writes nor publishes.
	_, err = h.svc.SetGrouping(ctx, domain.GroupByPriority)
	require.NoError(t, err)
	assert.Len(t, h.recorded(), 2)
}

func TestBoardService_SetGroupingRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return source.Snapshot{}, nil
	})

	state, err := h.svc.SetGrouping(context.Background(), domain.GroupingMode("team"))
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, domain.GroupByUser, state.Grouping)

	_, err = h.svc.SetOrdering(context.Background(), domain.OrderingMode("date"))
	assert.Error(t, err)
	assert.Empty(t, h.recorded())
}

func TestBoardService_ToggleDropdownIsNotPersisted(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return source.Snapshot{}, nil
	})

	assert.True(t, h.svc.ToggleDropdown().DropdownVisible)
	assert.False(t, h.svc.ToggleDropdown().DropdownVisible)
	assert.Empty(t, h.recorded())
}

func TestBoardService_ConcurrentSelectionsStayConsistent(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, func(context.Context) (source.Snapshot, error) {
		return source.Snapshot{}, nil
	})
	ctx := context.Background()

	const toggles = 101
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.svc.ToggleTheme(ctx)
			mode := domain.GroupingModes[i%len(domain.GroupingModes)]
			_, _ = h.svc.SetGrouping(ctx, mode)
		}(i)
	}
	wg.Wait()

	state := h.svc.State()
	assert.True(t, state.DarkMode, "an odd number of toggles ends dark")

	dark, _, err := h.store.Get(ctx, preferences.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "true", dark)

	grouping, _, err := h.store.Get(ctx, preferences.KeyGrouping)
	require.NoError(t, err)
	assert.Equal(t, string(state.Grouping), grouping)
}

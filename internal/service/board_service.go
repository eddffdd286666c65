package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-board/internal/board"
	"github.com/spec-kit/ticket-board/internal/domain"
	"github.com/spec-kit/ticket-board/internal/events"
	"github.com/spec-kit/ticket-board/internal/observability"
	"github.com/spec-kit/ticket-board/internal/preferences"
	"github.com/spec-kit/ticket-board/internal/source"
	apperrors "github.com/spec-kit/ticket-board/pkg/util/errorutil"
)

// Fetcher retrieves the remote ticket and user set.
type Fetcher interface {
	Fetch(ctx context.Context) (source.Snapshot, error)
}

// DisplayState is the presentation state shared by every board surface.
type DisplayState struct {
	DarkMode        bool
	Grouping        domain.GroupingMode
	Ordering        domain.OrderingMode
	DropdownVisible bool
}

// Theme names the active theme.
func (s DisplayState) Theme() string {
	if s.DarkMode {
		return "dark"
	}
	return "light"
}

// BoardDependencies bundles collaborators for the board service.
type BoardDependencies struct {
	Fetcher     Fetcher
	Preferences *preferences.Adapter
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// BoardService owns the fetched data set and the display selections, and
// produces the grouped view for the current selections.
type BoardService struct {
	fetcher    Fetcher
	prefs      *preferences.Adapter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	// selectMu serializes selection changes so the persisted value always
	// matches the in-memory one. It is taken before mu.
	selectMu sync.Mutex

	mu       sync.RWMutex
	tickets  []domain.Ticket
	users    []domain.User
	revision uint64
	state    DisplayState

	memo     board.Memo
	loadOnce sync.Once
	loadErr  error
	loaded   chan struct{}
}

// NewBoardService loads the persisted preferences once and returns a service
// with an empty data set. Call Load or Start to fetch.
func NewBoardService(ctx context.Context, deps BoardDependencies) *BoardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefs := deps.Preferences.Load(ctx)

	return &BoardService{
		fetcher:    deps.Fetcher,
		prefs:      deps.Preferences,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		tickets:    []domain.Ticket{},
		users:      []domain.User{},
		state: DisplayState{
			DarkMode: prefs.DarkMode,
			Grouping: prefs.Grouping,
			Ordering: prefs.Ordering,
		},
		loaded: make(chan struct{}),
	}
}

// Start runs Load in the background.
func (s *BoardService) Start(ctx context.Context) {
	go func() {
		_ = s.Load(ctx)
	}()
}

// Load performs the single remote fetch. It is not retried: later calls wait for
// and return the outcome of the first one. On failure the data set stays empty.
// A result that arrives after ctx is canceled is dropped.
func (s *BoardService) Load(ctx context.Context) error {
	s.loadOnce.Do(func() {
		s.loadErr = s.fetch(ctx)
		close(s.loaded)
	})
	<-s.loaded
	return s.loadErr
}

// Loaded is closed once the fetch has completed, successfully or not.
func (s *BoardService) Loaded() <-chan struct{} {
	return s.loaded
}

func (s *BoardService) fetch(ctx context.Context) error {
	snapshot, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.Warn("board fetch failed; showing empty board", zap.Error(err))
		s.metrics.RecordFetch("error")
		s.publish(ctx, events.Event{
			Type:    events.EventDataLoadFailed,
			Payload: events.DataLoadFailedPayload{Error: err.Error()},
		})
		return err
	}
	if err := ctx.Err(); err != nil {
		s.logger.Debug("board closed before fetch completed; discarding data", zap.Error(err))
		s.metrics.RecordFetch("discarded")
		return err
	}

	s.mu.Lock()
	s.tickets = snapshot.Tickets
	s.users = snapshot.Users
	s.revision++
	revision := s.revision
	s.mu.Unlock()

	s.metrics.RecordFetch("ok")
	s.logger.Info("board data loaded",
		zap.Int("tickets", len(snapshot.Tickets)),
		zap.Int("users", len(snapshot.Users)))
	s.publish(ctx, events.Event{
		Type: events.EventDataLoaded,
		Payload: events.DataLoadedPayload{
			Tickets:  len(snapshot.Tickets),
			Users:    len(snapshot.Users),
			Revision: revision,
		},
	})
	return nil
}

// State returns the current display selections.
func (s *BoardService) State() DisplayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Tickets returns a copy of the fetched tickets.
func (s *BoardService) Tickets() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tickets)
}

// Users returns a copy of the fetched users.
func (s *BoardService) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// View returns the grouped view for the current selections. Repeated calls with
// unchanged data and selections return the cached view.
func (s *BoardService) View() board.GroupedView {
	s.mu.RLock()
	tickets, users, revision, state := s.tickets, s.users, s.revision, s.state
	s.mu.RUnlock()

	key := board.Key{Revision: revision, Grouping: state.Grouping, Ordering: state.Ordering}
	view, hit := s.memo.View(key, func() board.GroupedView {
		s.logger.Debug("recomputing grouped view",
			zap.String("grouping", string(state.Grouping)),
			zap.String("ordering", string(state.Ordering)),
			zap.Int("tickets", len(tickets)))
		return board.ComputeGroupedView(tickets, users, state.Grouping, state.Ordering)
	})
	s.metrics.RecordViewComputation(hit)
	return view
}

// ViewWith computes a view for explicit modes without touching the selections or the cache.
func (s *BoardService) ViewWith(grouping domain.GroupingMode, ordering domain.OrderingMode) board.GroupedView {
	s.mu.RLock()
	tickets, users := s.tickets, s.users
	s.mu.RUnlock()
	return board.ComputeGroupedView(tickets, users, grouping, ordering)
}

// ToggleTheme flips between light and dark and persists the choice.
func (s *BoardService) ToggleTheme(ctx context.Context) DisplayState {
	s.selectMu.Lock()
	defer s.selectMu.Unlock()
	return s.setDarkMode(ctx, !s.State().DarkMode)
}

// SetDarkMode selects the theme and persists it.
func (s *BoardService) SetDarkMode(ctx context.Context, dark bool) DisplayState {
	s.selectMu.Lock()
	defer s.selectMu.Unlock()
	return s.setDarkMode(ctx, dark)
}

func (s *BoardService) setDarkMode(ctx context.Context, dark bool) DisplayState {
	s.mu.Lock()
	old := s.state.DarkMode
	s.state.DarkMode = dark
	state := s.state
	s.mu.Unlock()

	if old != dark {
		s.prefs.SaveDarkMode(ctx, dark)
		s.preferenceChanged(ctx, preferences.KeyDarkMode, strconv.FormatBool(old), strconv.FormatBool(dark))
	}
	return state
}

// ToggleDropdown shows or hides the display options panel. Not persisted.
func (s *BoardService) ToggleDropdown() DisplayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.DropdownVisible = !s.state.DropdownVisible
	return s.state
}

// SetGrouping selects the grouping mode and persists it.
func (s *BoardService) SetGrouping(ctx context.Context, mode domain.GroupingMode) (DisplayState, error) {
	if _, ok := domain.ParseGroupingMode(string(mode)); !ok {
		return s.State(), apperrors.NewValidationError(
			fmt.Sprintf("unknown grouping %q", mode),
			map[string]any{"allowed": domain.GroupingModes})
	}

	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	s.mu.Lock()
	old := s.state.Grouping
	s.state.Grouping = mode
	state := s.state
	s.mu.Unlock()

	if old != mode {
		s.prefs.SaveGrouping(ctx, mode)
		s.preferenceChanged(ctx, preferences.KeyGrouping, string(old), string(mode))
	}
	return state, nil
}

// SetOrdering selects the ordering mode and persists it.
func (s *BoardService) SetOrdering(ctx context.Context, mode domain.OrderingMode) (DisplayState, error) {
	if _, ok := domain.ParseOrderingMode(string(mode)); !ok {
		return s.State(), apperrors.NewValidationError(
			fmt.Sprintf("unknown ordering %q", mode),
			map[string]any{"allowed": domain.OrderingModes})
	}

	s.selectMu.Lock()
	defer s.selectMu.Unlock()

	s.mu.Lock()
	old := s.state.Ordering
	s.state.Ordering = mode
	state := s.state
	s.mu.Unlock()

	if old != mode {
		s.prefs.SaveOrdering(ctx, mode)
		s.preferenceChanged(ctx, preferences.KeyOrdering, string(old), string(mode))
	}
	return state, nil
}

func (s *BoardService) preferenceChanged(ctx context.Context, key, oldValue, newValue string) {
	s.publish(ctx, events.Event{
		Type:    events.EventPreferenceChanged,
		Payload: events.PreferenceChangedPayload{Key: key, OldValue: oldValue, NewValue: newValue},
	})
}

func (s *BoardService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

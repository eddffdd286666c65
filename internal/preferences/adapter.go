package preferences

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-board/internal/domain"
)

// Preferences is the typed view of the three persisted display settings.
type Preferences struct {
	DarkMode bool
	Grouping domain.GroupingMode
	Ordering domain.OrderingMode
}

// Defaults returns the settings used when nothing valid is stored.
func Defaults() Preferences {
	return Preferences{
		DarkMode: false,
		Grouping: domain.GroupByUser,
		Ordering: domain.OrderByTitle,
	}
}

// Adapter reads and writes display preferences on top of a Store.
// Backend failures are logged and never returned: reads fall back to the
// defaults and writes are best-effort.
type Adapter struct {
	store  Store
	logger *zap.Logger
}

// NewAdapter wraps store.
func NewAdapter(store Store, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, logger: logger}
}

// GetPreference returns the raw stored value for key.
func (a *Adapter) GetPreference(ctx context.Context, key string) (string, bool) {
	value, ok, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("read preference failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return value, ok
}

// SetPreference writes value under key. Failures are logged only.
func (a *Adapter) SetPreference(ctx context.Context, key, value string) {
	if err := a.store.Set(ctx, key, value); err != nil {
		a.logger.Warn("write preference failed", zap.String("key", key), zap.Error(err))
		return
	}
	a.logger.Debug("preference written", zap.String("key", key), zap.String("value", value))
}

// Load reads all three preferences, substituting defaults for absent or malformed values.
func (a *Adapter) Load(ctx context.Context) Preferences {
	lookup := a.snapshot(ctx)
	prefs := Defaults()

	if raw, ok := lookup(KeyDarkMode); ok {
		if dark, valid := decodeBool(raw); valid {
			prefs.DarkMode = dark
		} else {
			a.logger.Warn("malformed preference; using default", zap.String("key", KeyDarkMode), zap.String("value", raw))
		}
	}
	if raw, ok := lookup(KeyGrouping); ok {
		if mode, valid := domain.ParseGroupingMode(decodeString(raw)); valid {
			prefs.Grouping = mode
		} else {
			a.logger.Warn("malformed preference; using default", zap.String("key", KeyGrouping), zap.String("value", raw))
		}
	}
	if raw, ok := lookup(KeyOrdering); ok {
		if mode, valid := domain.ParseOrderingMode(decodeString(raw)); valid {
			prefs.Ordering = mode
		} else {
			a.logger.Warn("malformed preference; using default", zap.String("key", KeyOrdering), zap.String("value", raw))
		}
	}
	return prefs
}

// snapshot reads the stored keys in one round trip when the store is a Lister
// and falls back to one Get per key otherwise.
func (a *Adapter) snapshot(ctx context.Context) func(key string) (string, bool) {
	lister, ok := a.store.(Lister)
	if !ok {
		return func(key string) (string, bool) {
			return a.GetPreference(ctx, key)
		}
	}
	values, err := lister.All(ctx)
	if err != nil {
		a.logger.Warn("read preferences failed", zap.Error(err))
		return func(string) (string, bool) { return "", false }
	}
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// SaveDarkMode persists the theme as a JSON boolean.
func (a *Adapter) SaveDarkMode(ctx context.Context, dark bool) {
	a.SetPreference(ctx, KeyDarkMode, strconv.FormatBool(dark))
}

// SaveGrouping persists the grouping mode.
func (a *Adapter) SaveGrouping(ctx context.Context, mode domain.GroupingMode) {
	a.SetPreference(ctx, KeyGrouping, string(mode))
}

// SaveOrdering persists the ordering mode.
func (a *Adapter) SaveOrdering(ctx context.Context, mode domain.OrderingMode) {
	a.SetPreference(ctx, KeyOrdering, string(mode))
}

// decodeBool accepts only the JSON literals true and false.
func decodeBool(raw string) (bool, bool) {
	var value bool
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return false, false
	}
	return value, true
}

// decodeString accepts a bare value or a JSON-quoted one ("\"status\"").
func decodeString(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		var value string
		if err := json.Unmarshal([]byte(raw), &value); err == nil {
			return value
		}
	}
	return raw
}

package board

import (
	"sync"

	"github.com/spec-kit/ticket-board/internal/domain"
)

// Key identifies the inputs of one grouped view. Revision changes whenever the
// fetched ticket/user data set is replaced.
type Key struct {
	Revision uint64
	Grouping domain.GroupingMode
	Ordering domain.OrderingMode
}

// Memo caches the most recent GroupedView so repeated reads within one render,
// and renders with unchanged inputs, share a single computation.
type Memo struct {
	mu    sync.Mutex
	key   Key
	view  GroupedView
	valid bool
}

// View returns the cached view for key, computing it when the key changed.
// The second return value reports a cache hit.
func (m *Memo) View(key Key, compute func() GroupedView) (GroupedView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		return m.view, true
	}
	m.view = compute()
	m.key = key
	m.valid = true
	return m.view, false
}

// Reset drops the cached view.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	m.view = GroupedView{}
}

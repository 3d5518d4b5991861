package session

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/omnibox/internal/domain"
	"github.com/MrSnakeDoc/omnibox/internal/index"
	"github.com/MrSnakeDoc/omnibox/internal/logger"
)

var (
	ErrWindowNotFound = errors.New("window not found")
	ErrInvalidIndex   = errors.New("suggestion index out of range")
)

// Searcher schedules debounced live searches keyed by window
type Searcher interface {
	Request(key, input string, seq uint64) bool
	Cancel(key string)
}

type window struct {
	mu          sync.Mutex
	bar         *domain.URLBar
	subscribers map[chan domain.URLBar]struct{}
}

// publish hands the current state to every subscriber, replacing any state
// a slow subscriber has not read yet. Caller holds the window lock.
func (w *window) publish() {
	if len(w.subscribers) == 0 {
		return
	}
	state := copyBar(w.bar)
	for ch := range w.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// closeSubscribers ends every subscription. Caller holds the window lock.
func (w *window) closeSubscribers() {
	for ch := range w.subscribers {
		close(ch)
		delete(w.subscribers, ch)
	}
}

// Manager owns the URL bar state of every window. Each window is locked
// on its own so slow windows never block others.
type Manager struct {
	engine   *domain.Engine
	index    *index.MemoryIndex
	searcher Searcher
	logger   logger.Logger

	mu      sync.RWMutex
	windows map[string]*window
}

// NewManager creates a session manager. searcher may be nil when live
// search is disabled.
func NewManager(engine *domain.Engine, idx *index.MemoryIndex, searcher Searcher, log logger.Logger) *Manager {
	return &Manager{
		engine:   engine,
		index:    idx,
		searcher: searcher,
		logger:   log,
		windows:  make(map[string]*window),
	}
}

// SetSearcher wires the live search collaborator after construction
func (m *Manager) SetSearcher(searcher Searcher) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searcher = searcher
}

func (m *Manager) getSearcher() Searcher {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.searcher
}

// Input records new URL bar text for a window, creating the window on
// first use, and recomputes its suggestions.
func (m *Manager) Input(id, text string) domain.URLBar {
	w := m.window(id, true)
	w.mu.Lock()
	defer w.mu.Unlock()

	seq := w.bar.SetInput(text)
	m.recompute(w.bar)
	w.publish()

	if searcher := m.getSearcher(); searcher != nil && m.engine.Settings().SearchSuggestions {
		if !searcher.Request(id, text, seq) {
			searcher.Cancel(id)
		}
	}

	return copyBar(w.bar)
}

// Event applies a dropdown event to a window
func (m *Manager) Event(id string, ev domain.Event) (domain.URLBar, error) {
	w := m.window(id, false)
	if w == nil {
		return domain.URLBar{}, ErrWindowNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.bar.Handle(ev)
	if ev == domain.EventPreview {
		m.recompute(w.bar)
	}
	w.publish()
	return copyBar(w.bar), nil
}

// Select moves the highlighted suggestion of a window
func (m *Manager) Select(id string, idx int) (domain.URLBar, error) {
	w := m.window(id, false)
	if w == nil {
		return domain.URLBar{}, ErrWindowNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.bar.Select(idx) {
		return copyBar(w.bar), ErrInvalidIndex
	}
	w.publish()
	return copyBar(w.bar), nil
}

// Get returns the state of a window
func (m *Manager) Get(id string) (domain.URLBar, error) {
	w := m.window(id, false)
	if w == nil {
		return domain.URLBar{}, ErrWindowNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	return copyBar(w.bar), nil
}

// ApplySearch hands live search results to a window. Results whose
// sequence number or input is no longer current are discarded.
func (m *Manager) ApplySearch(id string, seq uint64, input string, results []string) bool {
	w := m.window(id, false)
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.bar.AcceptSearch(seq, input, results) {
		m.logger.Debug("discarding stale search results",
			logger.String("window", id),
			logger.Uint64("seq", seq),
			logger.Uint64("current_seq", w.bar.Seq))
		return false
	}
	m.recompute(w.bar)
	w.publish()
	return true
}

// Open creates a window with a fresh random id
func (m *Manager) Open() (string, domain.URLBar) {
	id := uuid.NewString()
	w := m.window(id, true)
	w.mu.Lock()
	defer w.mu.Unlock()

	return id, copyBar(w.bar)
}

// Subscribe streams the state of a window after every change, starting with
// the current one. Only the latest unread state is kept. The channel is
// closed when the window closes; call cancel to stop early.
func (m *Manager) Subscribe(id string) (<-chan domain.URLBar, func(), error) {
	w := m.window(id, false)
	if w == nil {
		return nil, nil, ErrWindowNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	ch := make(chan domain.URLBar, 1)
	ch <- copyBar(w.bar)
	w.subscribers[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if _, ok := w.subscribers[ch]; ok {
				delete(w.subscribers, ch)
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// Close forgets a window, ends its subscriptions and cancels its pending
// search. Only one of concurrent calls for the same window succeeds; the
// others get ErrWindowNotFound.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	w, ok := m.windows[id]
	delete(m.windows, id)
	searcher := m.searcher
	m.mu.Unlock()

	if !ok {
		return ErrWindowNotFound
	}

	w.mu.Lock()
	w.closeSubscribers()
	w.mu.Unlock()
	if searcher != nil {
		searcher.Cancel(id)
	}
	return nil
}

// CloseAll closes every window
func (m *Manager) CloseAll() {
	m.mu.RLock()
	ids := make([]string, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.Close(id)
	}
}

// Count returns the number of tracked windows
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.windows)
}

func (m *Manager) window(id string, create bool) *window {
	m.mu.RLock()
	w, ok := m.windows[id]
	m.mu.RUnlock()
	if ok || !create {
		return w
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		return w
	}
	w = &window{
		bar:         domain.NewURLBar(),
		subscribers: make(map[chan domain.URLBar]struct{}),
	}
	m.windows[id] = w
	return w
}

// recompute refreshes the suggestion list from the current index state and
// the window's own search results. Caller holds the window lock.
func (m *Manager) recompute(bar *domain.URLBar) {
	if bar.Input == "" {
		bar.SetSuggestions(nil)
		return
	}
	snap := m.index.Snapshot()
	snap.SearchResults = bar.SearchResults
	bar.SetSuggestions(m.engine.Suggest(bar.Input, snap))
}

func copyBar(bar *domain.URLBar) domain.URLBar {
	c := *bar
	c.Suggestions = slices.Clone(bar.Suggestions)
	c.SearchResults = slices.Clone(bar.SearchResults)
	return c
}

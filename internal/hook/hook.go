// Package hook runs registered side-effect actions after versioning and
// workflow commits. Handlers fire after the transaction is durable;
// failures and panics are logged and never affect the committed outcome.
package hook

import (
	"sort"
	"sync"

	"github.com/openpress/openpress-backend/pkg/logger"
)

// Event names
const (
	EventVersionCreated   = "version.after_create"
	EventVersionRollback  = "version.after_rollback"
	EventConflictResolved = "conflict.after_resolve"

	// workflow transition events are keyed by target state,
	// e.g. TransitionEvent("published") = "workflow.published"
	transitionPrefix = "workflow."
)

// TransitionEvent returns the hook event fired when content reaches a state
func TransitionEvent(toState string) string {
	return transitionPrefix + toState
}

// Handler receives the event name and its payload
type Handler func(event string, data map[string]interface{}) error

type entry struct {
	name     string
	handler  Handler
	priority int
}

// Manager registers and runs transition actions (thread-safe)
type Manager struct {
	hooks map[string][]entry
	mu    sync.RWMutex
}

// NewManager creates an empty hook Manager
func NewManager() *Manager {
	return &Manager{hooks: make(map[string][]entry)}
}

// Register adds a named handler for an event. Lower priority runs first.
func (m *Manager) Register(event, name string, handler Handler, priority int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[event] = append(m.hooks[event], entry{name: name, handler: handler, priority: priority})
	sort.SliceStable(m.hooks[event], func(i, j int) bool {
		return m.hooks[event][i].priority < m.hooks[event][j].priority
	})
}

// Unregister removes all handlers registered under the given name
func (m *Manager) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for event, entries := range m.hooks {
		filtered := entries[:0]
		for _, e := range entries {
			if e.name != name {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			delete(m.hooks, event)
		} else {
			m.hooks[event] = filtered
		}
	}
}

// Do runs all handlers for the event in priority order. Errors are logged
// and swallowed; a panicking handler does not stop the rest.
func (m *Manager) Do(event string, data map[string]interface{}) {
	m.mu.RLock()
	entries := make([]entry, len(m.hooks[event]))
	copy(entries, m.hooks[event])
	m.mu.RUnlock()

	for _, e := range entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetLogger().Error().
						Str("event", event).
						Str("hook", e.name).
						Interface("panic", r).
						Msg("hook handler panicked")
				}
			}()
			if err := e.handler(event, data); err != nil {
				logger.GetLogger().Error().Err(err).
					Str("event", event).
					Str("hook", e.name).
					Msg("hook handler failed")
			}
		}()
	}
}

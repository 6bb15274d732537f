// Package state keeps each admin's conversational session in process memory.
// Sessions do not survive a restart: an in-flight multi-step operation is
// simply restarted by the actor.
package state

import (
	"sync"

	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*model.Session)}
}

// Start replaces any existing session for the actor; a stale session from an
// abandoned workflow is silently discarded.
func (m *MemoryStore) Start(actorID int64, workflow model.Workflow, initial map[string]string) {
	data := make(map[string]string, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[actorID] = &model.Session{Workflow: workflow, Data: data}
}

// Get returns a copy of the actor's session, or nil when none is active.
func (m *MemoryStore) Get(actorID int64) *model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[actorID]
	if !ok {
		return nil
	}
	data := make(map[string]string, len(sess.Data))
	for k, v := range sess.Data {
		data[k] = v
	}
	return &model.Session{Workflow: sess.Workflow, Data: data}
}

// UpdateData merges the patch into session data; no-op without a session.
func (m *MemoryStore) UpdateData(actorID int64, patch map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[actorID]
	if !ok {
		return
	}
	for k, v := range patch {
		sess.Data[k] = v
	}
}

func (m *MemoryStore) Clear(actorID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, actorID)
}

package repository

import (
	"telegram-subscription-admin/internal/domain/model"
)

// SessionStore holds each actor's conversational state. It is in-process and
// transient: an in-flight multi-step operation is abandoned on restart and
// must be restarted by the actor.
type SessionStore interface {
	// Start replaces any existing session for the actor.
	Start(actorID int64, workflow model.Workflow, initial map[string]string)
	// Get returns the actor's session, or nil when none is active.
	Get(actorID int64) *model.Session
	// UpdateData merges the patch into session data; no-op without a session.
	UpdateData(actorID int64, patch map[string]string)
	Clear(actorID int64)
}

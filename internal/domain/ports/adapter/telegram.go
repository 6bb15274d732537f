// File: internal/domain/ports/adapter/telegram.go
package adapter

import (
	"context"
	"io"

	"telegram-subscription-admin/internal/domain/model"
)

// EventKind classifies an inbound update.
type EventKind string

const (
	EventText    EventKind = "text"
	EventFile    EventKind = "file"
	EventCommand EventKind = "command"
)

// Event is one inbound message, already stripped of transport detail.
// Document is non-nil only for EventFile and is owned by the engine for the
// duration of the handling call.
type Event struct {
	ActorID  int64
	Kind     EventKind
	Text     string
	Document io.Reader
	Profile  UserProfile
}

// UserProfile mirrors the sender profile fields the transport exposes.
type UserProfile struct {
	Username  string
	FirstName string
	LastName  string
}

// Keyboard is a layout hint; the transport renders the actual buttons from
// the translation provider's labels.
type Keyboard string

const (
	KeyboardNone     Keyboard = ""
	KeyboardMain     Keyboard = "main"
	KeyboardBackup   Keyboard = "backup"
	KeyboardAudience Keyboard = "audience"
	KeyboardPlans    Keyboard = "plans"
	KeyboardCancel   Keyboard = "cancel"
)

// Instruction is one outbound message the engine asks the transport to send.
// Lang drives the rendering of keyboard labels; the engine fills it from the
// actor's stored language.
type Instruction struct {
	ActorID    int64
	Lang       model.Language
	Text       string
	Keyboard   Keyboard
	Attachment string // path of a document to attach, empty for none
}

// MessageTransport delivers outbound instructions. Retries and rate limits
// are the transport's responsibility, not the engine's.
type MessageTransport interface {
	Send(ctx context.Context, in Instruction) error
}

// Translator resolves display text and menu labels for the engine's
// canonical keys; the engine itself carries no locale strings.
type Translator interface {
	T(lang model.Language, key string, args ...any) string
	// ResolveAction maps label text in any supported locale onto the
	// canonical action it represents.
	ResolveAction(text string) (model.Action, bool)
}

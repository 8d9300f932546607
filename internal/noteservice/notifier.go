package noteservice

import "github.com/starford/laguz/internal/models"

// Op identifies the kind of committed mutation a Notifier is told about.
type Op string

// Mutation kinds.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Notifier is an external collaborator notified after each committed
// mutation, e.g. for eventual off-device propagation. Notifications are
// fire-and-forget: the service never waits on a result and a failing
// notifier never rolls back a local commit.
type Notifier interface {
	NoteChanged(op Op, note models.Note)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// NoteChanged does nothing.
func (NopNotifier) NoteChanged(Op, models.Note) {}

package app

import "github.com/nhle/clientdeck/internal/status"

// Notices buffers committed status changes until the UI shows them.
// Board operations run on the Bubble Tea update goroutine, so no locking
// is needed.
type Notices struct {
	pending []status.Notification
}

// StatusChanged implements status.Notifier.
func (n *Notices) StatusChanged(note status.Notification) {
	n.pending = append(n.pending, note)
}

// Drain returns and clears the buffered notifications.
func (n *Notices) Drain() []status.Notification {
	out := n.pending
	n.pending = nil
	return out
}

// Package status reconciles a client's workflow stage with its answers.
package status

import (
	"fmt"
	"time"

	"github.com/nhle/clientdeck/internal/logger"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/progress"
)

// Notification describes a stage change for the presentation layer.
type Notification struct {
	ClientID   int64
	ClientName string
	From       model.Status
	To         model.Status
	// Auto is true when the change came from answer reconciliation rather
	// than a manual move.
	Auto bool
}

// Message renders the notification as a user-facing line.
func (n Notification) Message() string {
	if n.Auto {
		return fmt.Sprintf("%s moved automatically to %q", n.ClientName, n.To.Label())
	}
	return fmt.Sprintf("%s moved to %q", n.ClientName, n.To.Label())
}

// Notifier receives stage changes.
type Notifier interface {
	StatusChanged(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// StatusChanged calls f(n).
func (f NotifierFunc) StatusChanged(n Notification) { f(n) }

// Engine applies automatic and manual stage transitions.
type Engine struct {
	now    func() time.Time
	notify Notifier
	log    *logger.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithClock sets the time source used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNotifier sets the receiver of stage changes.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notify = n }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l.Component("status") }
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		notify: NotifierFunc(func(Notification) {}),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Target maps a progress percentage to the stage it implies.
func Target(percent int) model.Status {
	switch {
	case percent >= 100:
		return model.StatusDone
	case percent > 0:
		return model.StatusInProgress
	default:
		return model.StatusTodo
	}
}

// UpdateStatusByProgress moves c to the stage its progress against t
// implies and keeps CompletedAt in step. It reports whether the stage
// changed. Call it after every answer mutation.
func (e *Engine) UpdateStatusByProgress(c *model.Client, t *model.Template) bool {
	target := Target(progress.Calculate(*c, t))
	e.stampCompletion(c, target)

	if c.Status == target {
		return false
	}

	from := c.Status
	c.Status = target
	e.log.Debug().
		Int64("client_id", c.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("status reconciled with progress")
	e.notify.StatusChanged(Notification{
		ClientID:   c.ID,
		ClientName: c.Name,
		From:       from,
		To:         target,
		Auto:       true,
	})
	return true
}

// Move applies a manual stage change. Moving into done requires every
// required item of t to be complete; a rejected move leaves c untouched
// and returns a *model.ValidationError. Moving into the current stage is a
// no-op.
func (e *Engine) Move(c *model.Client, t *model.Template, target model.Status) (bool, error) {
	if !target.Valid() {
		return false, fmt.Errorf("unknown status %q", target)
	}
	if c.Status == target {
		return false, nil
	}

	if target == model.StatusDone {
		if err := progress.ValidateRequiredFields(*c, t).Err(); err != nil {
			e.log.Info().
				Int64("client_id", c.ID).
				Err(err).
				Msg("manual move to done rejected")
			return false, err
		}
	}

	from := c.Status
	c.Status = target
	e.stampCompletion(c, target)
	e.notify.StatusChanged(Notification{
		ClientID:   c.ID,
		ClientName: c.Name,
		From:       from,
		To:         target,
	})
	return true, nil
}

// stampCompletion sets CompletedAt on entering done, keeping an existing
// stamp, and clears it for every other stage.
func (e *Engine) stampCompletion(c *model.Client, target model.Status) {
	if target != model.StatusDone {
		c.CompletedAt = nil
		return
	}
	if c.CompletedAt == nil {
		c.CompletedAt = model.NewTimestampPtr(e.now())
	}
}

// Package board owns the application state: the template registry and the
// client store, hydrated from and flushed to the persistence adapter.
//
// Every mutating method is all-or-nothing. Changes are applied to the
// in-memory collections, persisted, and rolled back if persisting fails.
// Status notifications are delivered only once a change has been committed.
package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/clientdeck/internal/clients"
	"github.com/nhle/clientdeck/internal/logger"
	"github.com/nhle/clientdeck/internal/model"
	"github.com/nhle/clientdeck/internal/persist"
	"github.com/nhle/clientdeck/internal/progress"
	"github.com/nhle/clientdeck/internal/query"
	"github.com/nhle/clientdeck/internal/registry"
	"github.com/nhle/clientdeck/internal/status"
)

// Board is the single owner of templates and clients for a session.
type Board struct {
	templates *registry.Registry
	clients   *clients.Store
	engine    *status.Engine
	persist   *persist.Adapter
	log       *logger.Logger
	now       func() time.Time

	notifier status.Notifier
	pending  []status.Notification
}

type options struct {
	now      func() time.Time
	notifier status.Notifier
	log      *logger.Logger
	regOpts  []registry.Option
}

// Option customises a Board.
type Option func(*options)

// WithClock sets the time source for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithNotifier receives committed status changes.
func WithNotifier(n status.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger sets the board logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRegistryOptions passes options through to the template registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(o *options) { o.regOpts = append(o.regOpts, opts...) }
}

// Open loads the persisted state through adapter and returns a ready
// Board.
func Open(ctx context.Context, adapter *persist.Adapter, opts ...Option) (*Board, error) {
	o := options{
		now:      time.Now,
		notifier: status.NotifierFunc(func(status.Notification) {}),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	snap, err := adapter.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}

	b := &Board{
		templates: registry.New(snap.Templates, o.regOpts...),
		clients:   clients.New(snap.Clients, o.now),
		persist:   adapter,
		log:       o.log.Component("board"),
		now:       o.now,
		notifier:  o.notifier,
	}
	b.engine = status.New(
		status.WithClock(o.now),
		status.WithLogger(o.log),
		status.WithNotifier(status.NotifierFunc(func(n status.Notification) {
			b.pending = append(b.pending, n)
		})),
	)
	return b, nil
}

// Close flushes both collections in a single transaction.
func (b *Board) Close(ctx context.Context) error {
	if err := b.persist.SaveAll(ctx, b.snapshot()); err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	b.log.Info().Msg("board flushed")
	return nil
}

func (b *Board) snapshot() persist.Snapshot {
	return persist.Snapshot{Clients: b.clients.List(), Templates: b.templates.List()}
}

// deliver forwards pending notifications after a successful commit.
func (b *Board) deliver() {
	for _, n := range b.pending {
		b.notifier.StatusChanged(n)
	}
	b.pending = nil
}

// discard drops notifications of a rolled back change.
func (b *Board) discard() {
	b.pending = nil
}

// Template returns the template with the given id.
func (b *Board) Template(id string) (*model.Template, bool) {
	return b.templates.Get(id)
}

// Templates returns all templates in registry order.
func (b *Board) Templates() []model.Template {
	return b.templates.List()
}

// TemplateUsage lists templates with their client counts.
func (b *Board) TemplateUsage() []query.TemplateUsage {
	return query.Usage(b.templates.List(), b.clients.List())
}

// Client returns the client with the given id.
func (b *Board) Client(id int64) (model.Client, error) {
	return b.clients.Get(id)
}

// Clients returns the clients matching a template filter ("all" for every
// client).
func (b *Board) Clients(filter string) []model.Client {
	return query.ByTemplate(b.clients.List(), filter)
}

// Columns returns the filtered clients grouped by stage.
func (b *Board) Columns(filter string) query.Buckets {
	return query.ByStatus(b.Clients(filter))
}

// Stats counts the filtered clients per stage.
func (b *Board) Stats(filter string) query.Counts {
	return query.Stats(b.Clients(filter))
}

// Progress returns the completion percentage of c.
func (b *Board) Progress(c model.Client) int {
	t, _ := b.templates.Get(c.Template)
	return progress.Calculate(c, t)
}

// Validate checks c's required fields.
func (b *Board) Validate(c model.Client) progress.Validation {
	t, _ := b.templates.Get(c.Template)
	return progress.ValidateRequiredFields(c, t)
}

// CreateTemplate registers a new template and persists the registry.
func (b *Board) CreateTemplate(ctx context.Context, name string, items []model.TemplateItem) (model.Template, error) {
	before := b.templates.List()
	t, err := b.templates.Create(name, items)
	if err != nil {
		return model.Template{}, err
	}
	if err := b.persist.SaveTemplates(ctx, b.templates.List()); err != nil {
		b.templates.Replace(before)
		return model.Template{}, err
	}
	b.log.Info().Str("template_id", t.ID).Str("name", t.Name).Msg("template created")
	return t, nil
}

// UpdateTemplate replaces a template's name and items and persists the
// registry. Clients using it are reconciled with the new schema.
func (b *Board) UpdateTemplate(ctx context.Context, id, name string, items []model.TemplateItem) (model.Template, error) {
	beforeTemplates := b.templates.List()
	t, err := b.templates.Update(id, name, items)
	if err != nil {
		return model.Template{}, err
	}

	beforeClients := b.clients.List()
	touched := false
	for _, c := range beforeClients {
		if c.Template != id {
			continue
		}
		if b.engine.UpdateStatusByProgress(&c, &t) || completionChanged(c, beforeClients) {
			touched = true
		}
		if err := b.clients.Put(c); err != nil {
			b.templates.Replace(beforeTemplates)
			b.discard()
			return model.Template{}, err
		}
	}

	snap := b.snapshot()
	if touched {
		err = b.persist.SaveAll(ctx, snap)
	} else {
		err = b.persist.SaveTemplates(ctx, snap.Templates)
	}
	if err != nil {
		b.templates.Replace(beforeTemplates)
		b.clients.Replace(beforeClients)
		b.discard()
		return model.Template{}, err
	}

	b.deliver()
	b.log.Info().Str("template_id", id).Msg("template updated")
	return t, nil
}

// completionChanged reports whether c's completion stamp differs from the
// stored copy with the same id.
func completionChanged(c model.Client, stored []model.Client) bool {
	for _, s := range stored {
		if s.ID == c.ID {
			return (s.CompletedAt == nil) != (c.CompletedAt == nil)
		}
	}
	return false
}

// DeleteTemplate removes an unused, non-default template.
func (b *Board) DeleteTemplate(ctx context.Context, id string) error {
	before := b.templates.List()
	if err := b.templates.Delete(id, b.clients); err != nil {
		return err
	}
	if err := b.persist.SaveTemplates(ctx, b.templates.List()); err != nil {
		b.templates.Replace(before)
		return err
	}
	b.log.Info().Str("template_id", id).Msg("template deleted")
	return nil
}

// CreateClient adds a client in the todo stage.
func (b *Board) CreateClient(ctx context.Context, name, templateID string) (model.Client, error) {
	if strings.TrimSpace(name) == "" {
		return model.Client{}, fmt.Errorf("%w: client name must not be empty", model.ErrMalformedInput)
	}
	if _, ok := b.templates.Get(templateID); !ok {
		return model.Client{}, &model.NotFoundError{Kind: "template", ID: templateID}
	}

	c := b.clients.Create(name, templateID)
	if err := b.persist.SaveClients(ctx, b.clients.List()); err != nil {
		_ = b.clients.Delete(c.ID)
		return model.Client{}, err
	}
	b.log.Info().Int64("client_id", c.ID).Str("template_id", templateID).Msg("client created")
	return c, nil
}

// DuplicateClient copies a client into a fresh todo record.
func (b *Board) DuplicateClient(ctx context.Context, id int64) (model.Client, error) {
	c, err := b.clients.Duplicate(id)
	if err != nil {
		return model.Client{}, err
	}
	if err := b.persist.SaveClients(ctx, b.clients.List()); err != nil {
		_ = b.clients.Delete(c.ID)
		return model.Client{}, err
	}
	b.log.Info().Int64("client_id", c.ID).Int64("source_id", id).Msg("client duplicated")
	return c, nil
}

// DeleteClient removes a client.
func (b *Board) DeleteClient(ctx context.Context, id int64) error {
	before := b.clients.List()
	if err := b.clients.Delete(id); err != nil {
		return err
	}
	if err := b.persist.SaveClients(ctx, b.clients.List()); err != nil {
		b.clients.Replace(before)
		return err
	}
	b.log.Info().Int64("client_id", id).Msg("client deleted")
	return nil
}

// SetResponse records one answer and reconciles the client's stage. It
// reports whether the stage changed.
func (b *Board) SetResponse(ctx context.Context, clientID int64, itemID string, value any) (bool, error) {
	return b.SaveChecklist(ctx, clientID, map[string]any{itemID: value})
}

// SaveChecklist records several answers at once and reconciles the
// client's stage a single time. Every value is validated before any is
// applied.
func (b *Board) SaveChecklist(ctx context.Context, clientID int64, values map[string]any) (bool, error) {
	orig, err := b.clients.Get(clientID)
	if err != nil {
		return false, err
	}
	t, ok := b.templates.Get(orig.Template)
	if !ok {
		return false, &model.NotFoundError{Kind: "template", ID: orig.Template}
	}

	c := orig.Clone()
	for itemID, value := range values {
		item, ok := t.Item(itemID)
		if !ok {
			return false, &model.NotFoundError{Kind: "template item", ID: itemID}
		}
		r, err := model.NewResponse(item, value)
		if err != nil {
			return false, err
		}
		prev, had := orig.Response(itemID)
		c.Responses[itemID] = r
		// only an edited note moves its timestamp
		if item.Type == model.ItemObservations && !r.Empty() && (!had || prev != r) {
			c.ObservationLastEdited = model.NewTimestampPtr(b.now())
		}
	}

	changed := b.engine.UpdateStatusByProgress(&c, t)
	if err := b.commitClient(ctx, c, orig); err != nil {
		return false, err
	}
	return changed, nil
}

// MoveClient applies a manual stage change. Moving into done is rejected
// with a *model.ValidationError while required fields are incomplete.
func (b *Board) MoveClient(ctx context.Context, clientID int64, target model.Status) (bool, error) {
	orig, err := b.clients.Get(clientID)
	if err != nil {
		return false, err
	}
	t, _ := b.templates.Get(orig.Template)

	c := orig.Clone()
	moved, err := b.engine.Move(&c, t, target)
	if err != nil || !moved {
		return false, err
	}
	if err := b.commitClient(ctx, c, orig); err != nil {
		return false, err
	}
	return true, nil
}

// commitClient stores c, persists the collection and delivers pending
// notifications, restoring orig if persisting fails.
func (b *Board) commitClient(ctx context.Context, c, orig model.Client) error {
	if err := b.clients.Put(c); err != nil {
		b.discard()
		return err
	}
	if err := b.persist.SaveClients(ctx, b.clients.List()); err != nil {
		_ = b.clients.Put(orig)
		b.discard()
		return err
	}
	b.deliver()
	return nil
}

// Export renders the whole board as a backup document.
func (b *Board) Export(now time.Time) ([]byte, error) {
	return persist.Export(b.snapshot(), now)
}

// Import replaces the whole board with a backup document. Nothing changes
// unless the document parses and is persisted.
func (b *Board) Import(ctx context.Context, data []byte) error {
	snap, err := persist.Import(data)
	if err != nil {
		b.log.Warn().Err(err).Msg("import rejected")
		return err
	}
	if err := b.persist.SaveAll(ctx, snap); err != nil {
		return err
	}
	b.templates.Replace(snap.Templates)
	b.clients.Replace(snap.Clients)
	b.log.Info().
		Int("clients", len(snap.Clients)).
		Int("templates", len(snap.Templates)).
		Msg("board imported")
	return nil
}

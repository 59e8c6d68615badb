// Package clients holds the in-memory collection of client records.
package clients

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/clientdeck/internal/model"
)

// copySuffix is appended to the name of a duplicated client.
const copySuffix = " (Copy)"

// Store is the in-memory client collection. Clients keep insertion order.
type Store struct {
	clients []model.Client
	now     func() time.Time
	lastID  int64
}

// New returns a store holding clients. now supplies creation times and the
// timestamp-derived ids; nil means time.Now.
func New(clients []model.Client, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{now: now}
	s.Replace(clients)
	return s
}

// Replace discards the current contents and loads clients in order.
func (s *Store) Replace(clients []model.Client) {
	s.clients = make([]model.Client, 0, len(clients))
	s.lastID = 0
	for _, c := range clients {
		s.clients = append(s.clients, c.Clone())
		s.lastID = max(s.lastID, c.ID)
	}
}

// nextID derives an id from the current time in milliseconds, bumped past
// the last issued id so ids stay unique.
func (s *Store) nextID() int64 {
	id := max(s.now().UnixMilli(), s.lastID+1)
	s.lastID = id
	return id
}

// Create adds a new client in the todo stage.
func (s *Store) Create(name, templateID string) model.Client {
	c := model.Client{
		ID:        s.nextID(),
		Name:      strings.TrimSpace(name),
		Template:  templateID,
		Status:    model.StatusTodo,
		Responses: make(map[string]model.Response),
		CreatedAt: model.NewTimestamp(s.now()),
	}
	s.clients = append(s.clients, c)
	return c.Clone()
}

// Get returns a copy of the client with the given id.
func (s *Store) Get(id int64) (model.Client, error) {
	i := s.index(id)
	if i < 0 {
		return model.Client{}, notFound(id)
	}
	return s.clients[i].Clone(), nil
}

// Put replaces the stored client that has c's id.
func (s *Store) Put(c model.Client) error {
	i := s.index(c.ID)
	if i < 0 {
		return notFound(c.ID)
	}
	s.clients[i] = c.Clone()
	return nil
}

// Duplicate copies a client's name and template into a fresh todo record
// with no answers.
func (s *Store) Duplicate(id int64) (model.Client, error) {
	src, err := s.Get(id)
	if err != nil {
		return model.Client{}, err
	}
	return s.Create(src.Name+copySuffix, src.Template), nil
}

// Delete removes a client.
func (s *Store) Delete(id int64) error {
	i := s.index(id)
	if i < 0 {
		return notFound(id)
	}
	s.clients = slices.Delete(s.clients, i, i+1)
	return nil
}

// List returns copies of all clients in insertion order.
func (s *Store) List() []model.Client {
	out := make([]model.Client, len(s.clients))
	for i, c := range s.clients {
		out[i] = c.Clone()
	}
	return out
}

// Len returns the number of clients.
func (s *Store) Len() int {
	return len(s.clients)
}

// CountByTemplate returns how many clients use templateID.
func (s *Store) CountByTemplate(templateID string) int {
	n := 0
	for _, c := range s.clients {
		if c.Template == templateID {
			n++
		}
	}
	return n
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.clients, func(c model.Client) bool { return c.ID == id })
}

func notFound(id int64) error {
	return &model.NotFoundError{Kind: "client", ID: strconv.FormatInt(id, 10)}
}

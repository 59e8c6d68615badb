// Package query derives read-only views over the client collection.
package query

import "github.com/nhle/clientdeck/internal/model"

// AllTemplates is the template filter that matches every client.
const AllTemplates = "all"

// ByTemplate returns the clients using templateID, or all clients when
// templateID is AllTemplates. Input order is preserved.
func ByTemplate(clients []model.Client, templateID string) []model.Client {
	if templateID == AllTemplates {
		return clients
	}
	var out []model.Client
	for _, c := range clients {
		if c.Template == templateID {
			out = append(out, c)
		}
	}
	return out
}

// Buckets groups clients by workflow stage.
type Buckets struct {
	Todo       []model.Client
	InProgress []model.Client
	Done       []model.Client
}

// Get returns the bucket for s.
func (b Buckets) Get(s model.Status) []model.Client {
	switch s {
	case model.StatusTodo:
		return b.Todo
	case model.StatusInProgress:
		return b.InProgress
	case model.StatusDone:
		return b.Done
	default:
		return nil
	}
}

// ByStatus partitions clients into stage buckets, keeping input order
// within each bucket. Clients with an unknown stage are dropped.
func ByStatus(clients []model.Client) Buckets {
	var b Buckets
	for _, c := range clients {
		switch c.Status {
		case model.StatusTodo:
			b.Todo = append(b.Todo, c)
		case model.StatusInProgress:
			b.InProgress = append(b.InProgress, c)
		case model.StatusDone:
			b.Done = append(b.Done, c)
		}
	}
	return b
}

// Counts is the number of clients per stage.
type Counts struct {
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

// Of returns the count for stage s; unknown stages count zero.
func (c Counts) Of(s model.Status) int {
	switch s {
	case model.StatusTodo:
		return c.Todo
	case model.StatusInProgress:
		return c.InProgress
	case model.StatusDone:
		return c.Done
	default:
		return 0
	}
}

// Total returns the sum of all stages.
func (c Counts) Total() int {
	return c.Todo + c.InProgress + c.Done
}

// Stats counts clients per stage.
func Stats(clients []model.Client) Counts {
	var n Counts
	for _, c := range clients {
		switch c.Status {
		case model.StatusTodo:
			n.Todo++
		case model.StatusInProgress:
			n.InProgress++
		case model.StatusDone:
			n.Done++
		}
	}
	return n
}

// TemplateUsage pairs a template with the number of clients using it.
type TemplateUsage struct {
	Template model.Template
	Clients  int
}

// Usage lists templates in the given order with their client counts, for
// building template filters.
func Usage(templates []model.Template, clients []model.Client) []TemplateUsage {
	counts := make(map[string]int, len(templates))
	for _, c := range clients {
		counts[c.Template]++
	}
	out := make([]TemplateUsage, len(templates))
	for i, t := range templates {
		out[i] = TemplateUsage{Template: t, Clients: counts[t.ID]}
	}
	return out
}

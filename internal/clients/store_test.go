package clients

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/clientdeck/internal/model"
)

var epoch = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return epoch }
}

func TestCreate(t *testing.T) {
	s := New(nil, fixedClock())

	c := s.Create("  Acme  ", "tpl")
	assert.Equal(t, epoch.UnixMilli(), c.ID)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, model.StatusTodo, c.Status)
	assert.NotNil(t, c.Responses)
	assert.True(t, c.CreatedAt.Equal(epoch))
	assert.Nil(t, c.CompletedAt)

	// same millisecond still yields a unique id
	d := s.Create("Beta", "tpl")
	assert.Equal(t, c.ID+1, d.ID)
	assert.Equal(t, 2, s.Len())
}

func TestIDsStayAboveLoadedClients(t *testing.T) {
	future := epoch.Add(time.Hour).UnixMilli()
	s := New([]model.Client{{ID: future, Name: "Later"}}, fixedClock())

	c := s.Create("Now", "tpl")
	assert.Equal(t, future+1, c.ID)
}

func TestGetPut(t *testing.T) {
	s := New(nil, fixedClock())
	c := s.Create("Acme", "tpl")

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	got.Responses["x"] = model.BoolResponse(true)

	unchanged, _ := s.Get(c.ID)
	assert.Empty(t, unchanged.Responses)

	require.NoError(t, s.Put(got))
	stored, _ := s.Get(c.ID)
	assert.True(t, stored.Responses["x"].Checked())

	_, err = s.Get(999)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Put(model.Client{ID: 999}), model.ErrNotFound)
}

func TestDuplicate(t *testing.T) {
	s := New(nil, fixedClock())
	src := s.Create("Acme", "tpl")
	src.Status = model.StatusDone
	src.Responses["x"] = model.BoolResponse(true)
	src.CompletedAt = model.NewTimestampPtr(epoch)
	require.NoError(t, s.Put(src))

	dup, err := s.Duplicate(src.ID)
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "Acme (Copy)", dup.Name)
	assert.Equal(t, "tpl", dup.Template)
	assert.Equal(t, model.StatusTodo, dup.Status)
	assert.Empty(t, dup.Responses)
	assert.Nil(t, dup.CompletedAt)

	_, err = s.Duplicate(12345)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteAndCount(t *testing.T) {
	s := New(nil, fixedClock())
	a := s.Create("A", "one")
	s.Create("B", "one")
	s.Create("C", "two")

	assert.Equal(t, 2, s.CountByTemplate("one"))
	assert.Equal(t, 1, s.CountByTemplate("two"))
	assert.Zero(t, s.CountByTemplate("three"))

	require.NoError(t, s.Delete(a.ID))
	assert.Equal(t, 1, s.CountByTemplate("one"))
	assert.ErrorIs(t, s.Delete(a.ID), model.ErrNotFound)

	names := []string{}
	for _, c := range s.List() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"B", "C"}, names)
}

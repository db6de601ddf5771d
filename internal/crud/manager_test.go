package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string
	Text string
}

type noteForm struct{ Text string }

type noteKind struct{}

func (noteKind) Collection() string { return "notes" }
func (noteKind) Query() store.Query { return store.Query{} }
func (noteKind) Labels() Labels { return Labels{Singular: "Note", Plural: "notes"} }
func (noteKind) ID(n note) string { return n.ID }
func (noteKind) Blank() noteForm { return noteForm{} }
func (noteKind) FormOf(n note) noteForm { return noteForm{Text: n.Text} }
func (noteKind) Decode(d store.Document) (note, error) {
	s, _ := d.Fields["text"].(string)
	return note{ID: d.ID, Text: s}, nil
}
func (noteKind) Fields(f noteForm) (store.Fields, error) {
	if strings.TrimSpace(f.Text) == "" {
		return nil, errs.Validation("text", "is required")
	}
	return store.Fields{"text": strings.TrimSpace(f.Text)}, nil
}

// flaky fails every operation while down is set.
type flaky struct {
	store.Store
	down bool
}

func (f *flaky) List(ctx context.Context, c string, q store.Query) ([]store.Document, error) {
	if f.down {
		return nil, store.ErrUnavailable
	}
	return f.Store.List(ctx, c, q)
}

func (f *flaky) Create(ctx context.Context, c string, fl store.Fields) (string, error) {
	if f.down {
		return "", store.ErrUnavailable
	}
	return f.Store.Create(ctx, c, fl)
}

func (f *flaky) Update(ctx context.Context, c, id string, fl store.Fields) error {
	if f.down {
		return store.ErrUnavailable
	}
	return f.Store.Update(ctx, c, id, fl)
}

func (f *flaky) Delete(ctx context.Context, c, id string) error {
	if f.down {
		return store.ErrUnavailable
	}
	return f.Store.Delete(ctx, c, id)
}

type countingStore struct {
	store.Store
	writes int
}

func (c *countingStore) Create(ctx context.Context, col string, f store.Fields) (string, error) {
	c.writes++
	return c.Store.Create(ctx, col, f)
}

func (c *countingStore) Delete(ctx context.Context, col, id string) error {
	c.writes++
	return c.Store.Delete(ctx, col, id)
}

func TestSubmitCreatesAndReloads(t *testing.T) {
	ctx := context.Background()
	notices := &Notices{}
	var mutations []string
	m := NewManager[note, noteForm](store.NewMemoryStore(), noteKind{}, notices).
		WithEvents(Events{Mutated: func(c, op string) { mutations = append(mutations, c+":"+op) }})

	require.NoError(t, m.Submit(ctx, noteForm{Text: "  hello "}))
	require.Len(t, m.Items, 1)
	require.Equal(t, "hello", m.Items[0].Text)
	require.Nil(t, m.Selected)
	require.Equal(t, noteForm{}, m.Form)
	require.False(t, m.Pending)
	require.Equal(t, []Notice{{Level: Success, Text: "Note added successfully"}}, notices.List())
	require.Equal(t, []string{"notes:create"}, mutations)
}

func TestSubmitUpdatesSelected(t *testing.T) {
	ctx := context.Background()
	m := NewManager[note, noteForm](store.NewMemoryStore(), noteKind{}, &Notices{})
	require.NoError(t, m.Submit(ctx, noteForm{Text: "a"}))
	require.NoError(t, m.Submit(ctx, noteForm{Text: "b"}))

	require.True(t, m.SelectByID(m.Items[0].ID))
	require.Equal(t, noteForm{Text: "a"}, m.Form)
	require.NoError(t, m.Submit(ctx, noteForm{Text: "a2"}))

	require.Len(t, m.Items, 2)
	require.Equal(t, "a2", m.Items[0].Text)
	require.Equal(t, "b", m.Items[1].Text)
	require.False(t, m.SelectByID("missing"))
}

func TestSubmitValidationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: store.NewMemoryStore()}
	notices := &Notices{}
	m := NewManager[note, noteForm](cs, noteKind{}, notices)

	err := m.Submit(ctx, noteForm{Text: "   "})
	require.True(t, errs.IsValidation(err))
	require.Equal(t, 0, cs.writes)
	require.Equal(t, noteForm{Text: "   "}, m.Form)
	require.Equal(t, Failure, notices.List()[0].Level)
}

func TestLoadFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	fs := &flaky{Store: store.NewMemoryStore()}
	notices := &Notices{}
	m := NewManager[note, noteForm](fs, noteKind{}, notices)
	require.NoError(t, m.Submit(ctx, noteForm{Text: "kept"}))

	fs.down = true
	err := m.Load(ctx)
	require.True(t, errs.IsFetch(err))
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
	require.Len(t, m.Items, 1)
	require.False(t, m.Pending)
	last := notices.List()[len(notices.List())-1]
	require.Equal(t, Notice{Level: Failure, Text: "Failed to fetch notes"}, last)
}

func TestWriteFailureKeepsForm(t *testing.T) {
	ctx := context.Background()
	fs := &flaky{Store: store.NewMemoryStore()}
	m := NewManager[note, noteForm](fs, noteKind{}, &Notices{})
	require.NoError(t, m.Submit(ctx, noteForm{Text: "x"}))
	require.True(t, m.SelectByID(m.Items[0].ID))

	fs.down = true
	err := m.Submit(ctx, noteForm{Text: "y"})
	require.True(t, errs.IsWrite(err))
	require.NotNil(t, m.Selected)
	require.Equal(t, noteForm{Text: "y"}, m.Form)
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	cs := &countingStore{Store: store.NewMemoryStore()}
	m := NewManager[note, noteForm](cs, noteKind{}, &Notices{})
	require.NoError(t, m.Submit(ctx, noteForm{Text: "x"}))
	id := m.Items[0].ID
	writes := cs.writes

	var prompt string
	attempted, err := m.Remove(ctx, id, ConfirmFunc(func(p string) bool { prompt = p; return false }))
	require.NoError(t, err)
	require.False(t, attempted)
	require.Equal(t, writes, cs.writes)
	require.Equal(t, "Are you sure you want to delete this note?", prompt)

	attempted, err = m.Remove(ctx, id, Confirmed)
	require.NoError(t, err)
	require.True(t, attempted)
	require.Empty(t, m.Items)
}

func TestRemoveMissingReportsWriteFailure(t *testing.T) {
	ctx := context.Background()
	notices := &Notices{}
	m := NewManager[note, noteForm](store.NewMemoryStore(), noteKind{}, notices)
	_, err := m.Remove(ctx, "missing", Confirmed)
	require.True(t, errs.IsWrite(err))
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, "Failed to delete note: not found", notices.List()[0].Text)
}

func TestPatchMergesOnly(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	id, err := s.Create(ctx, "notes", store.Fields{"text": "t", "read": false})
	require.NoError(t, err)
	m := NewManager[note, noteForm](s, noteKind{}, &Notices{})
	require.NoError(t, m.Patch(ctx, id, store.Fields{"read": true}, "done"))

	d, err := s.Get(ctx, "notes", id)
	require.NoError(t, err)
	require.Equal(t, store.Fields{"text": "t", "read": true}, d.Fields)
}

// Two managers over the same store: the later write wins with no conflict check.
func TestConcurrentEditorsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	a := NewManager[note, noteForm](s, noteKind{}, &Notices{})
	require.NoError(t, a.Submit(ctx, noteForm{Text: "v1"}))
	b := NewManager[note, noteForm](s, noteKind{}, &Notices{})
	require.NoError(t, b.Load(ctx))

	id := a.Items[0].ID
	require.True(t, a.SelectByID(id))
	require.True(t, b.SelectByID(id))
	require.NoError(t, a.Submit(ctx, noteForm{Text: "from a"}))
	require.NoError(t, b.Submit(ctx, noteForm{Text: "from b"}))

	require.NoError(t, a.Load(ctx))
	require.Equal(t, "from b", a.Items[0].Text)
}

// Package crud implements the generic list/edit/delete workflow the admin
// console runs for every content collection.
package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
)

// Labels name an entity in notices, e.g. {"Project", "projects"}.
type Labels struct {
	Singular string
	Plural   string
}

// Kind adapts one content collection to the manager. T is the stored
// record, F the editable form.
type Kind[T, F any] interface {
	Collection() string
	Query() store.Query
	Labels() Labels
	Decode(store.Document) (T, error)
	ID(T) string
	Blank() F
	// FormOf denormalises a record into its form (e.g. tag list to comma string).
	FormOf(T) F
	// Fields validates and normalises a form. It returns a ValidationFailure
	// when the form cannot be written.
	Fields(F) (store.Fields, error)
}

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed is a Confirmer that always answers yes; it is used once the user
// has already answered a confirmation page.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// Manager holds the state of one admin view over a collection.
type Manager[T, F any] struct {
	Items    []T
	Selected *T
	Form     F
	Pending  bool

	kind   Kind[T, F]
	store  store.Store
	notify Notifier
	events Events
}

// Events is notified of successful mutations; the zero value ignores them.
type Events struct {
	Mutated func(collection, op string)
}

func NewManager[T, F any](s store.Store, kind Kind[T, F], n Notifier) *Manager[T, F] {
	if n == nil {
		n = LogNotifier{}
	}
	return &Manager[T, F]{
		Items:  []T{},
		Form:   kind.Blank(),
		kind:   kind,
		store:  s,
		notify: n,
	}
}

// WithEvents sets the mutation hook and returns m.
func (m *Manager[T, F]) WithEvents(e Events) *Manager[T, F] {
	m.events = e
	return m
}

func (m *Manager[T, F]) Kind() Kind[T, F] { return m.kind }

// Load replaces Items with the current collection contents. On failure Items
// keeps its previous value.
func (m *Manager[T, F]) Load(ctx context.Context) error {
	m.Pending = true
	defer func() { m.Pending = false }()

	labels := m.kind.Labels()
	docs, err := m.store.List(ctx, m.kind.Collection(), m.kind.Query())
	if err != nil {
		m.fail(fmt.Sprintf("Failed to fetch %s", labels.Plural), err)
		return errs.Fetch("list "+m.kind.Collection(), err)
	}
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		item, err := m.kind.Decode(d)
		if err != nil {
			logger.Warnf("skipping undecodable %s %s: %v", labels.Singular, d.ID, err)
			continue
		}
		items = append(items, item)
	}
	m.Items = items
	return nil
}

// SelectForEdit puts item into the form.
func (m *Manager[T, F]) SelectForEdit(item T) {
	sel := item
	m.Selected = &sel
	m.Form = m.kind.FormOf(item)
}

// SelectByID selects the loaded item with id. It reports false when no
// loaded item matches.
func (m *Manager[T, F]) SelectByID(id string) bool {
	for _, it := range m.Items {
		if m.kind.ID(it) == id {
			m.SelectForEdit(it)
			return true
		}
	}
	return false
}

// ResetForm clears the selection and the form.
func (m *Manager[T, F]) ResetForm() {
	m.Selected = nil
	m.Form = m.kind.Blank()
}

// Submit validates form and writes it: an update-merge when an item is
// selected, a create otherwise. On success the form resets and the list reloads.
func (m *Manager[T, F]) Submit(ctx context.Context, form F) error {
	m.Form = form
	labels := m.kind.Labels()
	fields, err := m.kind.Fields(form)
	if err != nil {
		m.notify.Notify(Notice{Level: Failure, Text: err.Error()})
		if errs.KindOf(err) == 0 {
			err = errs.Validation("", err.Error())
		}
		return err
	}

	m.Pending = true
	op, verb, failVerb := "create", "added", "add"
	if m.Selected != nil {
		op, verb, failVerb = "update", "updated", "update"
		err = m.store.Update(ctx, m.kind.Collection(), m.kind.ID(*m.Selected), fields)
	} else {
		_, err = m.store.Create(ctx, m.kind.Collection(), fields)
	}
	m.Pending = false
	if err != nil {
		m.fail(fmt.Sprintf("Failed to %s %s", failVerb, strings.ToLower(labels.Singular)), err)
		return errs.Write(op+" "+m.kind.Collection(), err)
	}

	m.mutated(op)
	m.notify.Notify(Notice{Level: Success, Text: fmt.Sprintf("%s %s successfully", labels.Singular, verb)})
	m.ResetForm()
	return m.Load(ctx)
}

// Remove deletes id after c confirms. It reports whether a delete was attempted.
func (m *Manager[T, F]) Remove(ctx context.Context, id string, c Confirmer) (bool, error) {
	labels := m.kind.Labels()
	if c == nil || !c.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(labels.Singular))) {
		return false, nil
	}
	m.Pending = true
	err := m.store.Delete(ctx, m.kind.Collection(), id)
	m.Pending = false
	if err != nil {
		m.fail(fmt.Sprintf("Failed to delete %s", strings.ToLower(labels.Singular)), err)
		return true, errs.Write("delete "+m.kind.Collection(), err)
	}
	m.mutated("delete")
	if m.Selected != nil && m.kind.ID(*m.Selected) == id {
		m.ResetForm()
	}
	m.notify.Notify(Notice{Level: Success, Text: fmt.Sprintf("%s deleted successfully", labels.Singular)})
	return true, m.Load(ctx)
}

// Patch merges fields into id without going through the form and reloads.
func (m *Manager[T, F]) Patch(ctx context.Context, id string, fields store.Fields, success string) error {
	m.Pending = true
	err := m.store.Update(ctx, m.kind.Collection(), id, fields)
	m.Pending = false
	if err != nil {
		m.fail(fmt.Sprintf("Failed to update %s", strings.ToLower(m.kind.Labels().Singular)), err)
		return errs.Write("update "+m.kind.Collection(), err)
	}
	m.mutated("update")
	if success != "" {
		m.notify.Notify(Notice{Level: Success, Text: success})
	}
	return m.Load(ctx)
}

func (m *Manager[T, F]) fail(text string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		text += ": not found"
	}
	logger.Errorf("%s: %v", text, err)
	m.notify.Notify(Notice{Level: Failure, Text: text})
}

func (m *Manager[T, F]) mutated(op string) {
	if m.events.Mutated != nil {
		m.events.Mutated(m.kind.Collection(), op)
	}
}

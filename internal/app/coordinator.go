// Package app wires the table, the form and the store together and keeps
// track of which document is being edited.
package app

import (
	"context"
	"sync"

	"docfront/internal/form"
	"docfront/internal/model"
	"docfront/internal/notify"
	"docfront/internal/table"
)

// Deleter is the store operation the coordinator forwards delete
// intents to.
type Deleter interface {
	Delete(ctx context.Context, doc model.Document) notify.Notification
}

// Coordinator holds the selected document.
type Coordinator struct {
	ctx      context.Context
	store    Deleter
	form     *form.Controller
	dispatch form.Dispatcher

	mu       sync.Mutex
	selected *model.Document
}

// NewCoordinator registers itself on view and f. Delete intents are run
// through dispatch with ctx detached from cancellation.
func NewCoordinator(ctx context.Context, st Deleter, f *form.Controller, view *table.View, dispatch form.Dispatcher) *Coordinator {
	if dispatch == nil {
		dispatch = form.Async
	}
	c := &Coordinator{
		ctx:      context.WithoutCancel(ctx),
		store:    st,
		form:     f,
		dispatch: dispatch,
	}
	view.OnEdit(c.Edit)
	view.OnDelete(c.Delete)
	f.OnSaved(c.reset)
	f.OnCleared(c.reset)
	return c
}

// Edit selects doc and pre-fills the form from it.
func (c *Coordinator) Edit(doc model.Document) {
	c.mu.Lock()
	d := doc
	c.selected = &d
	c.mu.Unlock()
	c.form.Select(&doc)
}

// Delete forwards doc to the store. The selection is left alone.
func (c *Coordinator) Delete(doc model.Document) {
	c.dispatch(func() { c.store.Delete(c.ctx, doc) })
}

// Selected returns the document being edited, if any.
func (c *Coordinator) Selected() (model.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return model.Document{}, false
	}
	return *c.selected, true
}

func (c *Coordinator) reset() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// Package form holds the input state for creating or editing one document.
package form

import (
	"context"
	"sync"

	"docfront/internal/model"
	"docfront/internal/notify"
)

// Mode tells whether a save creates a new document or updates the
// selected one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Values are the raw field values of the form.
type Values struct {
	Name            string `form:"name" validate:"required"`
	URLDocumento    string `form:"url_documento" validate:"required"`
	NomeSignatario  string `form:"nome_signatario" validate:"required"`
	EmailSignatario string `form:"email_signatario" validate:"required,form_email"`
}

// Get returns the value of f.
func (v Values) Get(f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldURLDocumento:
		return v.URLDocumento
	case FieldNomeSignatario:
		return v.NomeSignatario
	case FieldEmailSignatario:
		return v.EmailSignatario
	}
	return ""
}

func (v *Values) set(f Field, value string) bool {
	switch f {
	case FieldName:
		v.Name = value
	case FieldURLDocumento:
		v.URLDocumento = value
	case FieldNomeSignatario:
		v.NomeSignatario = value
	case FieldEmailSignatario:
		v.EmailSignatario = value
	default:
		return false
	}
	return true
}

// Input converts the values into an API payload without an id.
func (v Values) Input() model.DocumentInput {
	return model.DocumentInput{
		Name:            v.Name,
		URLDocumento:    v.URLDocumento,
		NomeSignatario:  v.NomeSignatario,
		EmailSignatario: v.EmailSignatario,
	}
}

// Saver receives validated submissions.
type Saver interface {
	Add(ctx context.Context, in model.DocumentInput) notify.Notification
	Update(ctx context.Context, in model.DocumentInput) notify.Notification
}

// Dispatcher runs a store call. Save does not wait for it to finish.
type Dispatcher func(func())

// Async runs f on its own goroutine.
func Async(f func()) { go f() }

// Inline runs f before returning. Used where the process would otherwise
// exit before the call completes.
func Inline(f func()) { f() }

// Option customizes a Controller.
type Option func(*Controller)

// WithDispatcher sets how store calls are run. The default is Async.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) {
		if d != nil {
			c.dispatch = d
		}
	}
}

// Controller owns the state of one document form.
type Controller struct {
	saver    Saver
	dispatch Dispatcher

	mu       sync.Mutex
	values   Values
	touched  map[Field]bool
	selected *model.Document

	onSaved   []func()
	onCleared []func()
}

// New returns a controller in create mode with empty values.
func New(saver Saver, opts ...Option) *Controller {
	c := &Controller{
		saver:    saver,
		dispatch: Async,
		touched:  map[Field]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSaved registers fn to run after every accepted Save.
func (c *Controller) OnSaved(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSaved = append(c.onSaved, fn)
}

// OnCleared registers fn to run after every Clear.
func (c *Controller) OnCleared(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCleared = append(c.onCleared, fn)
}

// Select switches to edit mode for doc and overwrites every field from
// it. A nil doc only drops back to create mode.
func (c *Controller) Select(doc *model.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if doc == nil {
		c.selected = nil
		return
	}
	d := *doc
	c.selected = &d
	signer, _ := d.FirstSigner()
	c.values = Values{
		Name:            d.Name,
		URLDocumento:    "",
		NomeSignatario:  signer.Name,
		EmailSignatario: signer.Email,
	}
}

// Mode reports the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil {
		return ModeEdit
	}
	return ModeCreate
}

// Selected returns the document being edited, if any.
func (c *Controller) Selected() (model.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return model.Document{}, false
	}
	return *c.selected, true
}

// Set updates a single field and marks it touched. Unknown fields are
// ignored.
func (c *Controller) Set(f Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values.set(f, value) {
		c.touched[f] = true
	}
}

// SetValues replaces every field and marks them all touched.
func (c *Controller) SetValues(v Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = v
	for _, f := range Fields {
		c.touched[f] = true
	}
}

// Values returns the current field values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Touched reports whether f was set since the last clear.
func (c *Controller) Touched(f Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched[f]
}

// Validate checks the current values.
func (c *Controller) Validate() error {
	return Validate(c.Values())
}

// Save validates the form and hands the payload to the saver: Update
// with the selected id in edit mode, Add otherwise. The call is handed
// to the dispatcher and Save clears the form and fires the saved
// listeners without waiting for it. A *ValidationError means nothing was
// dispatched.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if err := Validate(c.values); err != nil {
		c.mu.Unlock()
		return err
	}
	in := c.values.Input()
	editing := c.selected != nil
	if editing {
		in.ID = c.selected.ID
	}
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	if editing {
		c.dispatch(func() { c.saver.Update(ctx, in) })
	} else {
		c.dispatch(func() { c.saver.Add(ctx, in) })
	}

	c.Clear()
	c.fire(&c.onSaved)
	return nil
}

// Clear resets every field, returns to create mode and fires the cleared
// listeners.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.values = Values{}
	c.touched = map[Field]bool{}
	c.selected = nil
	c.mu.Unlock()
	c.fire(&c.onCleared)
}

func (c *Controller) fire(list *[]func()) {
	c.mu.Lock()
	fns := append([]func(){}, (*list)...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Package table projects the store's document list into rows and turns
// row actions into edit, delete and refresh intents.
package table

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"docfront/internal/model"
	"docfront/internal/notify"
)

var ErrNotFound = errors.New("document not found")

// Source is what the view reads from and refreshes.
type Source interface {
	Records() []model.Document
	Find(id int64) (model.Document, bool)
	Reload(ctx context.Context) notify.Notification
}

// Row is one rendered document.
type Row struct {
	ID          int64
	Name        string
	Status      string
	CreatedAt   time.Time
	SignerName  string
	SignerEmail string
	SignerCount int
}

// View is a stateless projection of a Source.
type View struct {
	src Source

	mu       sync.Mutex
	onEdit   []func(model.Document)
	onDelete []func(model.Document)
}

// New returns a view over src.
func New(src Source) *View {
	return &View{src: src}
}

// OnEdit registers a listener for edit intents.
func (v *View) OnEdit(fn func(model.Document)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onEdit = append(v.onEdit, fn)
}

// OnDelete registers a listener for delete intents.
func (v *View) OnDelete(fn func(model.Document)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onDelete = append(v.onDelete, fn)
}

// Rows projects the current records.
func (v *View) Rows() []Row {
	docs := v.src.Records()
	rows := make([]Row, 0, len(docs))
	for _, d := range docs {
		signer, _ := d.FirstSigner()
		rows = append(rows, Row{
			ID:          d.ID,
			Name:        d.Name,
			Status:      d.Status,
			CreatedAt:   d.CreatedAt.Time,
			SignerName:  signer.Name,
			SignerEmail: signer.Email,
			SignerCount: len(d.Signers),
		})
	}
	return rows
}

// Edit emits an edit intent for the listed document with id.
func (v *View) Edit(id int64) error {
	return v.emit(id, func() []func(model.Document) { return v.onEdit })
}

// Delete emits a delete intent for the listed document with id.
func (v *View) Delete(id int64) error {
	return v.emit(id, func() []func(model.Document) { return v.onDelete })
}

// Refresh asks the source for a full reload.
func (v *View) Refresh(ctx context.Context) notify.Notification {
	return v.src.Reload(ctx)
}

// Render writes the rows as a text table.
func (v *View) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Status", "Created", "Signer", "Email", "Signers"})
	for _, r := range v.Rows() {
		tw.AppendRow(table.Row{r.ID, r.Name, r.Status, FormatDate(r.CreatedAt), r.SignerName, r.SignerEmail, strconv.Itoa(r.SignerCount)})
	}
	tw.Render()
}

// FormatDate renders a creation timestamp, or "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02/01/2006 15:04")
}

func (v *View) emit(id int64, listeners func() []func(model.Document)) error {
	doc, ok := v.src.Find(id)
	if !ok {
		return ErrNotFound
	}
	v.mu.Lock()
	fns := append([]func(model.Document){}, listeners()...)
	v.mu.Unlock()
	for _, fn := range fns {
		fn(doc)
	}
	return nil
}

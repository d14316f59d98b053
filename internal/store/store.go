package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docfront/internal/model"
	"docfront/internal/notify"
)

var ErrIDRequired = errors.New("id is required")

// API is the subset of the document API the store depends on.
type API interface {
	List(ctx context.Context) ([]model.Document, error)
	Create(ctx context.Context, in model.DocumentInput) (*model.Document, error)
	Update(ctx context.Context, id int64, in model.DocumentInput) error
	Delete(ctx context.Context, id int64) error
}

// State is a point-in-time copy of the store.
type State struct {
	Records []model.Document
	Loading bool
}

// Option customizes a Store.
type Option func(*Store)

// WithHooks registers notification hooks, in order.
func WithHooks(hooks ...notify.Hook) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, hooks...)
	}
}

// WithClock overrides the time source used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store holds the current document list and a loading flag. It never
// patches the list: every successful mutation is followed by a full
// reload, and the list is replaced wholesale.
//
// Operations are not coordinated with each other. Two loads in flight
// both write their result; whichever finishes last wins.
type Store struct {
	api    API
	hooks  notify.Hooks
	now    func() time.Time
	tracer trace.Tracer

	mu      sync.RWMutex
	records []model.Document
	loading bool

	subMu  sync.Mutex
	subs   map[int]func(State)
	order  []int
	nextID int
}

// New constructs a store backed by api. The list starts empty; call
// Load to populate it.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:     api,
		now:     time.Now,
		tracer:  otel.Tracer("docfront/store"),
		records: []model.Document{},
		subs:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns a copy of the current list.
func (s *Store) Records() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Loading reports whether a load is in flight. It is advisory only.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns the records and loading flag read together.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Records: cloneRecords(s.records), Loading: s.loading}
}

// Find returns the record with the given id from the current list.
func (s *Store) Find(id int64) (model.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.records {
		if d.ID == id {
			return cloneRecord(d), true
		}
	}
	return model.Document{}, false
}

// Subscribe registers fn to be called after every state change, in
// registration order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Load fetches the full list. On failure the previous list is kept.
func (s *Store) Load(ctx context.Context) notify.Notification {
	ctx, span := s.tracer.Start(ctx, "store.Load")
	defer span.End()

	s.setLoading(true)

	docs, err := s.api.List(ctx)
	if err != nil {
		s.setLoading(false)
		return s.fail(ctx, span, notify.OpLoad, "Failed to load documents.", err)
	}

	s.mu.Lock()
	s.records = cloneRecords(docs)
	s.loading = false
	s.mu.Unlock()
	s.publish()

	span.SetAttributes(attribute.Int("documents.count", len(docs)))
	return s.emit(ctx, notify.Notification{
		Op:      notify.OpLoad,
		Level:   notify.LevelInfo,
		Message: fmt.Sprintf("Loaded %d documents.", len(docs)),
	})
}

// Reload is the user-triggered refresh. It behaves exactly like Load.
func (s *Store) Reload(ctx context.Context) notify.Notification {
	return s.Load(ctx)
}

// Add creates a document and then reloads the list.
func (s *Store) Add(ctx context.Context, in model.DocumentInput) notify.Notification {
	ctx, span := s.tracer.Start(ctx, "store.Add")
	defer span.End()

	in.ID = 0
	if _, err := s.api.Create(ctx, in); err != nil {
		return s.fail(ctx, span, notify.OpAdd, "Failed to add document.", err)
	}
	return s.succeed(ctx, notify.OpAdd, "Document added.")
}

// Update replaces the mutable fields of in.ID and then reloads the list.
func (s *Store) Update(ctx context.Context, in model.DocumentInput) notify.Notification {
	ctx, span := s.tracer.Start(ctx, "store.Update", trace.WithAttributes(attribute.Int64("document.id", in.ID)))
	defer span.End()

	if in.ID == 0 {
		return s.fail(ctx, span, notify.OpUpdate, "Failed to update document.", ErrIDRequired)
	}
	if err := s.api.Update(ctx, in.ID, in); err != nil {
		return s.fail(ctx, span, notify.OpUpdate, "Failed to update document.", err)
	}
	return s.succeed(ctx, notify.OpUpdate, "Document updated.")
}

// Delete removes doc and then reloads the list.
func (s *Store) Delete(ctx context.Context, doc model.Document) notify.Notification {
	ctx, span := s.tracer.Start(ctx, "store.Delete", trace.WithAttributes(attribute.Int64("document.id", doc.ID)))
	defer span.End()

	if doc.ID == 0 {
		return s.fail(ctx, span, notify.OpDelete, "Failed to delete document.", ErrIDRequired)
	}
	if err := s.api.Delete(ctx, doc.ID); err != nil {
		return s.fail(ctx, span, notify.OpDelete, "Failed to delete document.", err)
	}
	return s.succeed(ctx, notify.OpDelete, "Document deleted.")
}

// succeed reports the mutation before resynchronizing, so listeners see
// the success ahead of any load failure that follows it.
func (s *Store) succeed(ctx context.Context, op notify.Op, msg string) notify.Notification {
	n := s.emit(ctx, notify.Notification{Op: op, Level: notify.LevelSuccess, Message: msg})
	s.Load(ctx)
	return n
}

func (s *Store) fail(ctx context.Context, span trace.Span, op notify.Op, msg string, err error) notify.Notification {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return s.emit(ctx, notify.Notification{Op: op, Level: notify.LevelError, Message: msg, Err: err})
}

func (s *Store) emit(ctx context.Context, n notify.Notification) notify.Notification {
	n.At = s.now()
	s.hooks.Notify(ctx, n)
	return n
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.publish()
}

func (s *Store) publish() {
	state := s.Snapshot()
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

// cloneRecords copies the list and each document's signers, so callers
// never share memory with the store.
func cloneRecords(in []model.Document) []model.Document {
	out := make([]model.Document, len(in))
	for i, d := range in {
		out[i] = cloneRecord(d)
	}
	return out
}

func cloneRecord(d model.Document) model.Document {
	if d.Signers != nil {
		d.Signers = append([]model.Signer(nil), d.Signers...)
	}
	return d
}

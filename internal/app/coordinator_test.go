package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docfront/internal/form"
	"docfront/internal/model"
	"docfront/internal/notify"
	"docfront/internal/store"
	"docfront/internal/store/mocks"
	"docfront/internal/table"
)

type harness struct {
	api   *mocks.MockAPI
	store *store.Store
	form  *form.Controller
	view  *table.View
	coord *Coordinator
	inbox *notify.Inbox
}

func newHarness(t *testing.T, docs []model.Document) *harness {
	t.Helper()
	api := new(mocks.MockAPI)
	inbox := notify.NewInbox(10)
	st := store.New(api, store.WithHooks(inbox))
	f := form.New(st, form.WithDispatcher(form.Inline))
	view := table.New(st)
	coord := NewCoordinator(context.Background(), st, f, view, form.Inline)

	api.On("List", mock.Anything).Return(docs, nil).Once()
	st.Load(context.Background())

	return &harness{api: api, store: st, form: f, view: view, coord: coord, inbox: inbox}
}

func TestCoordinator_EditSaveScenario(t *testing.T) {
	h := newHarness(t, []model.Document{{ID: 1, Name: "A", Signers: []model.Signer{{Name: "Ann", Email: "ann@example.com"}}}})

	require.NoError(t, h.view.Edit(1))
	sel, ok := h.coord.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)
	assert.Equal(t, form.ModeEdit, h.form.Mode())
	assert.Equal(t, "A", h.form.Values().Name)

	h.form.Set(form.FieldName, "B")
	h.form.Set(form.FieldURLDocumento, "https://example.com/a.pdf")

	h.api.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(in model.DocumentInput) bool {
		return in.ID == 1 && in.Name == "B"
	})).Return(nil).Once()
	h.api.On("List", mock.Anything).Return([]model.Document{{ID: 1, Name: "B"}}, nil).Once()

	require.NoError(t, h.form.Save(context.Background()))

	h.api.AssertExpectations(t)
	rows := h.view.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].Name)
	_, ok = h.coord.Selected()
	assert.False(t, ok)

	toasts := h.inbox.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.OpUpdate, toasts[0].Op)
}

func TestCoordinator_CreateScenario(t *testing.T) {
	h := newHarness(t, []model.Document{})

	in := model.DocumentInput{
		Name:            "New",
		URLDocumento:    "https://example.com/n.pdf",
		NomeSignatario:  "Ann",
		EmailSignatario: "ann@example.com",
	}
	h.api.On("Create", mock.Anything, in).Return(&model.Document{ID: 3}, nil).Once()
	h.api.On("List", mock.Anything).Return([]model.Document{{ID: 3, Name: "New"}}, nil).Once()

	h.form.SetValues(form.Values{
		Name:            in.Name,
		URLDocumento:    in.URLDocumento,
		NomeSignatario:  in.NomeSignatario,
		EmailSignatario: in.EmailSignatario,
	})
	require.NoError(t, h.form.Save(context.Background()))

	h.api.AssertExpectations(t)
	h.api.AssertNumberOfCalls(t, "Create", 1)
	h.api.AssertNumberOfCalls(t, "List", 2)
	assert.Len(t, h.store.Records(), 1)
}

func TestCoordinator_ClearResetsSelection(t *testing.T) {
	h := newHarness(t, []model.Document{{ID: 1, Name: "A"}})

	require.NoError(t, h.view.Edit(1))
	h.form.Clear()

	_, ok := h.coord.Selected()
	assert.False(t, ok)
	assert.Equal(t, form.ModeCreate, h.form.Mode())
}

func TestCoordinator_Delete(t *testing.T) {
	h := newHarness(t, []model.Document{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})

	h.api.On("Delete", mock.Anything, int64(2)).Return(nil).Once()
	h.api.On("List", mock.Anything).Return([]model.Document{{ID: 1, Name: "A"}}, nil).Once()

	require.NoError(t, h.view.Delete(2))

	h.api.AssertExpectations(t)
	assert.Len(t, h.store.Records(), 1)
}

func TestCoordinator_DeleteFailure(t *testing.T) {
	h := newHarness(t, []model.Document{{ID: 1, Name: "A"}})

	h.api.On("Delete", mock.Anything, int64(1)).Return(errors.New("down")).Once()

	require.NoError(t, h.view.Delete(1))

	assert.Len(t, h.store.Records(), 1)
	toasts := h.inbox.Drain()
	require.Len(t, toasts, 1)
	assert.True(t, toasts[0].Failed())
}

func TestCoordinator_InvalidSaveKeepsSelection(t *testing.T) {
	h := newHarness(t, []model.Document{{ID: 1, Name: "A"}})

	require.NoError(t, h.view.Edit(1))
	err := h.form.Save(context.Background())

	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	_, ok := h.coord.Selected()
	assert.True(t, ok)
	h.api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docfront/internal/app"
	"docfront/internal/form"
	"docfront/internal/model"
	"docfront/internal/notify"
	"docfront/internal/store"
	"docfront/internal/store/mocks"
	"docfront/internal/table"
)

type testUI struct {
	app *fiber.App
	api *mocks.MockAPI
	fe  Frontend
}

func newTestUI(t *testing.T, docs []model.Document) *testUI {
	t.Helper()
	api := new(mocks.MockAPI)
	inbox := notify.NewInbox(10)
	st := store.New(api, store.WithHooks(inbox))
	f := form.New(st, form.WithDispatcher(form.Inline))
	view := table.New(st)
	coord := app.NewCoordinator(context.Background(), st, f, view, form.Inline)
	fe := Frontend{Store: st, Form: f, Table: view, Coordinator: coord, Inbox: inbox}

	api.On("List", mock.Anything).Return(docs, nil).Once()
	st.Load(context.Background())

	a := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(a, fe, func(context.Context) error { return nil }, nil)
	return &testUI{app: a, api: api, fe: fe}
}

func (u *testUI) post(t *testing.T, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := u.app.Test(req)
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	return resp, buf.String()
}

func (u *testUI) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := u.app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	return resp, buf.String()
}

func validForm() url.Values {
	return url.Values{
		"name":             {"Contract"},
		"url_documento":    {"https://example.com/c.pdf"},
		"nome_signatario":  {"Ann"},
		"email_signatario": {"ann@example.com"},
	}
}

func TestPage(t *testing.T) {
	u := newTestUI(t, []model.Document{{ID: 1, Name: "Lease", Status: "pending", Signers: []model.Signer{{Name: "Ann", Email: "ann@example.com"}}}})

	resp, body := u.get(t, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "New document")
	assert.Contains(t, body, "Lease")
	assert.Contains(t, body, "ann@example.com")
	assert.Contains(t, body, `action="/documents/1/edit"`)
}

func TestPage_Empty(t *testing.T) {
	u := newTestUI(t, []model.Document{})

	_, body := u.get(t, "/")
	assert.Contains(t, body, "No documents.")
}

func TestSaveDocument_Create(t *testing.T) {
	u := newTestUI(t, []model.Document{})
	u.api.On("Create", mock.Anything, model.DocumentInput{
		Name:            "Contract",
		URLDocumento:    "https://example.com/c.pdf",
		NomeSignatario:  "Ann",
		EmailSignatario: "ann@example.com",
	}).Return(&model.Document{ID: 1}, nil).Once()
	u.api.On("List", mock.Anything).Return([]model.Document{{ID: 1, Name: "Contract"}}, nil).Once()

	resp, _ := u.post(t, "/documents/save", validForm())

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	u.api.AssertExpectations(t)

	_, body := u.get(t, "/")
	assert.Contains(t, body, "Document added.")
	assert.Contains(t, body, "Contract")

	_, body = u.get(t, "/")
	assert.NotContains(t, body, "Document added.", "toasts are shown once")
}

func TestSaveDocument_Invalid(t *testing.T) {
	u := newTestUI(t, []model.Document{})
	values := validForm()
	values.Set("email_signatario", "not-an-email")

	resp, body := u.post(t, "/documents/save", values)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, msgFillFields)
	assert.Contains(t, body, "must be a valid email address")
	assert.Contains(t, body, `value="Contract"`)
	u.api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEditAndUpdate(t *testing.T) {
	u := newTestUI(t, []model.Document{{ID: 1, Name: "A", Signers: []model.Signer{{Name: "Ann", Email: "ann@example.com"}}}})

	resp, _ := u.post(t, "/documents/1/edit", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	sel, ok := u.fe.Coordinator.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)

	_, body := u.get(t, "/")
	assert.Contains(t, body, "Edit document #1")
	assert.Contains(t, body, `value="Ann"`)

	u.api.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(in model.DocumentInput) bool {
		return in.ID == 1 && in.Name == "B"
	})).Return(nil).Once()
	u.api.On("List", mock.Anything).Return([]model.Document{{ID: 1, Name: "B"}}, nil).Once()

	values := validForm()
	values.Set("name", "B")
	resp, _ = u.post(t, "/documents/save", values)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	u.api.AssertExpectations(t)

	_, ok = u.fe.Coordinator.Selected()
	assert.False(t, ok, "save resets the selection")

	_, body = u.get(t, "/")
	assert.Contains(t, body, "New document")
	assert.NotContains(t, body, "Edit document #1")
	assert.Contains(t, body, "Document updated.")
}

func TestClearForm(t *testing.T) {
	u := newTestUI(t, []model.Document{{ID: 1, Name: "A"}})
	u.post(t, "/documents/1/edit", nil)

	resp, _ := u.post(t, "/documents/clear", nil)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, ok := u.fe.Coordinator.Selected()
	assert.False(t, ok)
	assert.Equal(t, form.Values{}, u.fe.Form.Values())
}

func TestDeleteDocument(t *testing.T) {
	u := newTestUI(t, []model.Document{{ID: 1, Name: "A"}})

	t.Run("success", func(t *testing.T) {
		u.api.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
		u.api.On("List", mock.Anything).Return([]model.Document{}, nil).Once()

		resp, _ := u.post(t, "/documents/1/delete", nil)

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Empty(t, u.fe.Store.Records())
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, body := u.post(t, "/documents/1/delete", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var payload errorPayload
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.Equal(t, "NOT_FOUND", payload.Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, body := u.post(t, "/documents/abc/delete", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "INVALID_ID")
	})
}

func TestRefreshDocuments(t *testing.T) {
	u := newTestUI(t, []model.Document{{ID: 1, Name: "A"}})
	u.api.On("List", mock.Anything).Return(nil, errors.New("down")).Once()

	resp, _ := u.post(t, "/documents/refresh", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := u.get(t, "/")
	assert.Contains(t, body, "Failed to load documents.")
	assert.Contains(t, body, "<td>A</td>", "stale list stays visible")
}

func TestHealthCheck(t *testing.T) {
	a := fiber.New()

	t.Run("healthy", func(t *testing.T) {
		a.Get("/health", HealthCheck(func(context.Context) error { return nil }))
		resp, _ := a.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		b := fiber.New()
		b.Get("/health", HealthCheck(func(context.Context) error { return errors.New("api down") }))
		resp, _ := b.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	a := fiber.New()
	a.Get("/healthz", LivenessProbe())

	resp, _ := a.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "docfront_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	a := fiber.New()
	RegisterRoutes(a, Frontend{}, func(context.Context) error { return nil }, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	resp, err := a.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	buf := new(bytes.Buffer)
	buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "docfront_test_total 1")
}

func TestErrorHandler(t *testing.T) {
	a := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	a.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })

	resp, _ := a.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body errorPayload
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)

	resp, _ = a.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

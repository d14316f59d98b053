package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"docfront/internal/app"
	"docfront/internal/form"
	"docfront/internal/notify"
	"docfront/internal/store"
	"docfront/internal/table"
)

// Frontend bundles the components the web UI drives.
type Frontend struct {
	Store       *store.Store
	Form        *form.Controller
	Table       *table.View
	Coordinator *app.Coordinator
	Inbox       *notify.Inbox
}

// Pinger checks that the upstream API answers.
type Pinger func(ctx context.Context) error

// RegisterRoutes attaches the UI, health and metrics routes to the app.
// metrics may be nil.
func RegisterRoutes(a *fiber.App, fe Frontend, ping Pinger, metrics http.Handler) {
	a.Get("/", Page(fe))
	a.Post("/documents/save", SaveDocument(fe))
	a.Post("/documents/clear", ClearForm(fe))
	a.Post("/documents/refresh", RefreshDocuments(fe))
	a.Post("/documents/:id/edit", EditDocument(fe))
	a.Post("/documents/:id/delete", DeleteDocument(fe))

	a.Get("/health", HealthCheck(ping))
	a.Get("/healthz", LivenessProbe())
	if metrics != nil {
		a.Get("/metrics", adaptor.HTTPHandler(metrics))
	}
}

// Page renders the form and the document table.
func Page(fe Frontend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderPage(c, fe, fiber.StatusOK, nil)
	}
}

// SaveDocument copies the posted fields into the form and saves it. The
// store call runs in the background; the redirect does not wait for it.
func SaveDocument(fe Frontend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, f := range form.Fields {
			fe.Form.Set(f, c.FormValue(string(f)))
		}

		if err := fe.Form.Save(c.UserContext()); err != nil {
			if verr, ok := asValidationError(err); ok {
				return renderPage(c, fe, fiber.StatusUnprocessableEntity, verr)
			}
			return err
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// ClearForm resets the form and leaves edit mode.
func ClearForm(fe Frontend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fe.Form.Clear()
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// RefreshDocuments reloads the list before redirecting.
func RefreshDocuments(fe Frontend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fe.Table.Refresh(c.UserContext())
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// EditDocument selects a listed document for editing.
func EditDocument(fe Frontend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return withID(c, fe.Table.Edit)
	}
}

// DeleteDocument asks the store to delete a listed document.
func DeleteDocument(fe Frontend) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return withID(c, fe.Table.Delete)
	}
}

func withID(c *fiber.Ctx, intent func(int64) error) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	if err := intent(id); err != nil {
		if errors.Is(err, table.ErrNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HealthCheck reports whether the upstream API is reachable.
func HealthCheck(ping Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

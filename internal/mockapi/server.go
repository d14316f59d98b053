// Package mockapi is an in-memory stand-in for the document API, used
// for local development and tests. It serves the same routes and
// response shapes as the real service.
package mockapi

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docfront/internal/model"
)

// Server holds documents in memory.
type Server struct {
	mu     sync.Mutex
	docs   map[int64]model.Document
	nextID int64
	now    func() time.Time
}

// New returns an empty server, optionally seeded with docs.
func New(docs ...model.Document) *Server {
	s := &Server{docs: map[int64]model.Document{}, nextID: 1, now: time.Now}
	for _, d := range docs {
		s.docs[d.ID] = d
		if d.ID >= s.nextID {
			s.nextID = d.ID + 1
		}
	}
	return s
}

// App builds a fiber app serving the API under prefix (e.g. "/api").
func (s *Server) App(prefix string) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	s.Register(app.Group(prefix))
	return app
}

// Register attaches the document routes to r.
func (s *Server) Register(r fiber.Router) {
	r.Get("/documento", s.list)
	r.Get("/documento/:id<int>", s.get)
	r.Post("/documento/create", s.create)
	r.Put("/documento/update/:id<int>", s.update)
	r.Delete("/documento/delete/:id<int>", s.delete)
}

// Documents returns the stored documents ordered by id.
func (s *Server) Documents() []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (s *Server) list(c *fiber.Ctx) error {
	return c.JSON(s.Documents())
}

func (s *Server) lookup(c *fiber.Ctx) (model.Document, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return model.Document{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	return d, ok
}

func (s *Server) get(c *fiber.Ctx) error {
	d, ok := s.lookup(c)
	if !ok {
		return writeError(c, fiber.StatusNotFound, "Documento não encontrado")
	}
	return c.JSON(d)
}

func (s *Server) create(c *fiber.Ctx) error {
	var in model.DocumentInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid body")
	}
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"name", in.Name},
		{"url_documento", in.URLDocumento},
		{"nome_signatario", in.NomeSignatario},
		{"email_signatario", in.EmailSignatario},
	} {
		if f.v == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return writeError(c, fiber.StatusBadRequest, "Campos obrigatórios ausentes: "+strings.Join(missing, ", "))
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	now := s.now().UTC()
	token := uuid.NewString()
	doc := model.Document{
		ID:            id,
		OpenID:        id,
		Token:         token,
		Name:          in.Name,
		Status:        model.StatusPending,
		CreatedAt:     model.NewTimestamp(now),
		LastUpdatedAt: model.NewTimestamp(now),
		CreatedBy:     "system",
		CompanyID:     1,
		Signers: []model.Signer{{
			ID:         id,
			Token:      uuid.NewString(),
			Status:     model.SignerPending,
			Name:       in.NomeSignatario,
			Email:      in.EmailSignatario,
			DocumentID: id,
		}},
	}
	s.docs[id] = doc
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Documento criado com sucesso",
		"data":    doc,
	})
}

// update only changes the name, like the real service.
func (s *Server) update(c *fiber.Ctx) error {
	var in model.DocumentInput
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid body")
	}
	if in.Name == "" {
		return writeError(c, fiber.StatusBadRequest, "Campos obrigatórios ausentes: name")
	}
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, fiber.StatusNotFound, "Documento não encontrado")
	}

	s.mu.Lock()
	d, ok := s.docs[id]
	if ok {
		d.Name = in.Name
		d.LastUpdatedAt = model.NewTimestamp(s.now().UTC())
		s.docs[id] = d
	}
	s.mu.Unlock()
	if !ok {
		return writeError(c, fiber.StatusNotFound, "Documento não encontrado")
	}

	return c.JSON(fiber.Map{"name": d.Name})
}

func (s *Server) delete(c *fiber.Ctx) error {
	d, ok := s.lookup(c)
	if !ok {
		return writeError(c, fiber.StatusNotFound, "Documento não encontrado")
	}
	s.mu.Lock()
	delete(s.docs, d.ID)
	s.mu.Unlock()
	return c.SendStatus(fiber.StatusNoContent)
}

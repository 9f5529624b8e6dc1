// Package web serves published posts as ad-gated landing pages.
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"moviegate_bot/internal/model"
	"moviegate_bot/internal/premium"
	"moviegate_bot/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Server renders the public landing pages for published posts.
type Server struct {
	app     *fiber.App
	store   storage.Storage
	premium *premium.Checker
	log     *slog.Logger
}

// New builds the HTTP server and registers its routes.
func New(store storage.Storage, checker *premium.Checker, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		premium: checker,
		log:     log,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error("http error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong.")
		},
	})

	s.app.Get("/", s.handleHealth)
	s.app.Get("/post/:id", s.handlePost)

	return s
}

// Listen serves HTTP on addr, blocking until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.SendString("Bot server is running")
}

// pageData is the template input for the gate page. Progress is the
// impression count the page starts at; a post owner with active premium
// starts at Target so the links render unlocked.
type pageData struct {
	Title     string
	Language  string
	PosterURL string
	ZoneID    string
	Target    int
	Progress  int
	Links     []model.QualityLink
	Channels  []model.PromoChannel
}

func (s *Server) handlePost(c *fiber.Ctx) error {
	id := c.Params("id")

	post, err := s.store.GetPost(c.UserContext(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return s.renderNotFound(c)
	}
	if err != nil {
		return err
	}

	progress := 0
	if viewer := c.Query("user"); viewer != "" {
		if viewerID, perr := strconv.ParseInt(viewer, 10, 64); perr == nil && viewerID == post.CreatorChatID {
			ok, cerr := s.premium.CheckAndReap(c.UserContext(), viewerID, time.Now())
			if cerr != nil {
				s.log.Error("premium check", "user_id", viewerID, "error", cerr)
			}
			if ok {
				progress = post.AdTarget
			}
		}
	}

	data := pageData{
		Title:     post.Title,
		Language:  post.Language,
		PosterURL: post.PosterURL,
		ZoneID:    post.ZoneID,
		Target:    post.AdTarget,
		Progress:  progress,
		Links:     post.Links,
		Channels:  post.Channels,
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "gate.html", data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) renderNotFound(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "notfound.html", nil); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(fiber.StatusNotFound).Send(buf.Bytes())
}

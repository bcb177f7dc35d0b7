package server

import (
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/citer/internal/citation"
)

// session owns one Generator. Its mutex serialises the requests that share it.
type session struct {
	mu        sync.Mutex
	gen       *citation.Generator
	createdAt time.Time
	lastUsed  time.Time
}

// SessionsHandler gives stateful clients their own citation store.
type SessionsHandler struct {
	deps Deps
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionsHandler(d Deps) *SessionsHandler {
	return &SessionsHandler{
		deps:     d,
		ttl:      d.Config.Server.SessionTTL,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (h *SessionsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.POST("/:id/citations", h.generate)
	g.GET("/:id/citations", h.list)
	g.DELETE("/:id/citations", h.clear)
	g.POST("/:id/export", h.export)
}

func (h *SessionsHandler) create(c echo.Context) error {
	now := h.now()
	style, ok := citation.ParseStyle(h.deps.Config.Server.DefaultStyle)
	if !ok {
		style = citation.UNSW
	}
	s := &session{gen: h.deps.newGenerator(style), createdAt: now, lastUsed: now}
	id := uuid.NewString()

	h.mu.Lock()
	h.evictLocked(now)
	h.sessions[id] = s
	h.mu.Unlock()

	return c.JSON(http.StatusCreated, SessionResponse{ID: id, CreatedAt: now})
}

// lookup returns the live session named in the path, locked. Callers must
// unlock it.
func (h *SessionsHandler) lookup(c echo.Context) (*session, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	now := h.now()

	h.mu.Lock()
	h.evictLocked(now)
	s, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	s.mu.Lock()
	s.lastUsed = now
	return s, nil
}

// evictLocked drops sessions idle for longer than the TTL. h.mu must be held.
func (h *SessionsHandler) evictLocked(now time.Time) {
	if h.ttl <= 0 {
		return
	}
	for id, s := range h.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := now.Sub(s.lastUsed)
		s.mu.Unlock()
		if idle > h.ttl {
			delete(h.sessions, id)
		}
	}
}

func (h *SessionsHandler) generate(c echo.Context) error {
	var req SessionCitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !isHTTPURL(req.URL) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "url must be an absolute http(s) URL")
	}
	s, err := h.lookup(c)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	msg := s.gen.Generate(c.Request().Context(), req.URL, req.Style)
	return c.JSON(http.StatusOK, MessageResponse{Message: msg, Count: s.gen.Count()})
}

func (h *SessionsHandler) list(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	style := c.QueryParam("style")
	if style == "" {
		style = string(citation.Harvard)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: s.gen.GetAll(style), Count: s.gen.Count()})
}

func (h *SessionsHandler) clear(c echo.Context) error {
	s, err := h.lookup(c)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	msg := s.gen.Clear()
	return c.JSON(http.StatusOK, MessageResponse{Message: msg, Count: s.gen.Count()})
}

// export writes only to a bare file name; directories in the request are
// rejected so clients cannot choose where the server writes.
func (h *SessionsHandler) export(c echo.Context) error {
	var req SessionExportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = h.deps.Config.Output.ExportFile
	} else if filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "filename must not contain a path")
	}
	s, err := h.lookup(c)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	msg := s.gen.Export(req.Style, filename)
	return c.JSON(http.StatusOK, MessageResponse{Message: msg, Count: s.gen.Count()})
}

// Len reports the number of live sessions.
func (h *SessionsHandler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

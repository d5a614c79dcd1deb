package server

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-tripform/pkg/controller"
	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/render"
	"github.com/goliatone/go-tripform/pkg/validation"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "tripform_session"
	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL = 30 * time.Minute
)

// PageRenderer renders the booking form for a session. Every render.Renderer
// satisfies it.
type PageRenderer interface {
	Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error)
	ContentType() string
}

var _ PageRenderer = render.Renderer(nil)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the zap logger used by middleware and handlers.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL overrides how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock swaps the time source used for sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAssets serves fsys under path.
func WithAssets(path string, fsys fs.FS) Option {
	return func(s *Server) {
		s.assetsPath = path
		s.assets = fsys
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// Server exposes the booking form over HTTP.
type Server struct {
	form          model.FormModel
	renderer      PageRenderer
	factory       ControllerFactory
	logger        *zap.Logger
	sessionTTL    time.Duration
	now           func() time.Time
	assetsPath    string
	assets        fs.FS
	secureCookies bool

	sessions *SessionStore
	engine   *gin.Engine
}

// New builds the server and its gin router.
func New(form model.FormModel, renderer PageRenderer, factory ControllerFactory, options ...Option) (*Server, error) {
	if renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	s := &Server{
		form:       form,
		renderer:   renderer,
		factory:    factory,
		logger:     zap.NewNop(),
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	sessions, err := NewSessionStore(factory, s.sessionTTL, s.now)
	if err != nil {
		return nil, err
	}
	s.sessions = sessions
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// StartJanitor sweeps idle sessions until ctx is done.
func (s *Server) StartJanitor(ctx context.Context, interval time.Duration) {
	s.sessions.Start(ctx, interval, func(n int) {
		s.logger.Debug("expired sessions closed", zap.Int("count", n))
	})
}

// Close releases every session controller.
func (s *Server) Close() {
	s.sessions.Close()
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(Recovery(s.logger))
	router.Use(RequestLogger(s.logger))

	router.GET("/", s.handleForm)
	router.POST("/", s.handleSubmit)
	router.GET("/status", s.handleStatus)
	router.GET("/healthz", s.handleHealth)
	if s.assets != nil && s.assetsPath != "" {
		router.StaticFS(s.assetsPath, http.FS(s.assets))
	}
	return router
}

// handleForm renders an existing session's state. Visitors without a live
// session get the empty form; their session starts with the first POST.
func (s *Server) handleForm(c *gin.Context) {
	id, _ := c.Cookie(SessionCookie)
	ctrl, ok := s.sessions.Lookup(id)
	if !ok {
		s.render(c, http.StatusOK, s.blankState())
		return
	}
	s.setSessionCookie(c, id)
	s.renderState(c, http.StatusOK, ctrl)
}

func (s *Server) handleSubmit(c *gin.Context) {
	ctrl, ok := s.session(c)
	if !ok {
		return
	}

	values := make(map[string]string, len(s.form.Fields))
	for _, field := range s.form.Fields {
		values[field.Name] = c.PostForm(field.Name)
	}

	code := http.StatusOK
	_, err := ctrl.Submit(c.Request.Context(), values)
	var verrs *validation.Errors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrSubmissionInFlight):
		code = http.StatusConflict
	case errors.Is(err, controller.ErrClosed):
		code = http.StatusGone
	default:
		code = http.StatusBadGateway
		_ = c.Error(err)
	}
	s.renderState(c, code, ctrl)
}

type statusResponse struct {
	Status     *controller.Status `json:"status"`
	Submitting bool               `json:"submitting"`
}

func (s *Server) handleStatus(c *gin.Context) {
	id, _ := c.Cookie(SessionCookie)
	ctrl, ok := s.sessions.Lookup(id)
	if !ok {
		c.JSON(http.StatusOK, statusResponse{})
		return
	}
	state := ctrl.Snapshot()
	c.JSON(http.StatusOK, statusResponse{Status: state.Status, Submitting: state.Submitting})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}

func (s *Server) session(c *gin.Context) (*controller.Controller, bool) {
	id, _ := c.Cookie(SessionCookie)
	sessionID, ctrl, _, err := s.sessions.Resolve(id)
	if err != nil {
		s.logger.Error("create session", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "could not start booking session"})
		return nil, false
	}
	s.setSessionCookie(c, sessionID)
	return ctrl, true
}

// setSessionCookie (re)issues the cookie so its Max-Age follows the sliding
// server side TTL.
func (s *Server) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(s.sessionTTL/time.Second), "/", "", s.secureCookies, true)
}

func (s *Server) blankState() controller.State {
	values := make(map[string]string, len(s.form.Fields))
	for _, field := range s.form.Fields {
		values[field.Name] = ""
	}
	return controller.State{Values: values}
}

func (s *Server) renderState(c *gin.Context, code int, ctrl *controller.Controller) {
	s.render(c, code, ctrl.Snapshot())
}

func (s *Server) render(c *gin.Context, code int, state controller.State) {
	opts := state.RenderOptions()
	opts.Now = s.now()

	body, err := s.renderer.Render(c.Request.Context(), s.form, opts)
	if err != nil {
		s.logger.Error("render form", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "could not render form"})
		return
	}
	c.Data(code, s.renderer.ContentType(), body)
}

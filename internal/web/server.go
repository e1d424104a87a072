// Package web is the HTTP surface of linkdb: HTML pages for listing,
// viewing, editing and deleting rows, and a JSON API over the same
// operations.
package web

import (
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hlop3z/linkdb/internal/alerr"
	"github.com/hlop3z/linkdb/internal/form"
	"github.com/hlop3z/linkdb/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config configures the HTTP surface.
type Config struct {
	Addr string `yaml:"addr"`

	// PrincipalHeader names the header carrying the authenticated user id.
	// The server does not verify it: run behind a trusted proxy that
	// authenticates the caller, sets this header and strips any value the
	// client sent.
	PrincipalHeader string `yaml:"principal_header"`

	Action          string   `yaml:"action"`           // form submit endpoint
	AllowOrigins    []string `yaml:"allow_origins"`    // CORS origins for /api

	FormName    string            `yaml:"form_name"`
	FormClasses map[string]string `yaml:"form_classes"` // keyed by "table", "input", "textarea" or "select"
	HideTitles  bool              `yaml:"hide_titles"`
}

func (c Config) formOptions() []form.Option {
	opts := []form.Option{form.WithTitles(!c.HideTitles)}
	if c.FormName != "" {
		opts = append(opts, form.WithName(c.FormName))
	}
	for kind, class := range c.FormClasses {
		opts = append(opts, form.WithClass(kind, class))
	}
	return opts
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.PrincipalHeader == "" {
		c.PrincipalHeader = "X-User-ID"
	}
	if c.Action == "" {
		c.Action = "/submit"
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = []string{"*"}
	}
	return c
}

// Server serves one catalog.
type Server struct {
	env      *model.Env
	messages *alerr.Catalog
	cfg      Config
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds the router. messages may be nil.
func New(env *model.Env, messages *alerr.Catalog, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		env:      env,
		messages: messages,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer returns an http.Server for the router with conservative timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), logRequests(s.logger), s.principal())
	r.SetHTMLTemplate(template.Must(
		template.New("").ParseFS(templateFS, "templates/*.html"),
	))

	r.GET("/", s.index)
	r.GET("/tables/:table", s.list)
	r.GET("/tables/:table/:id", s.view)
	r.GET("/tables/:table/:id/edit", s.editForm)
	r.POST("/tables/:table/:id/delete", s.delete)
	r.GET("/new/:table", s.newForm)
	r.POST(s.cfg.Action, s.submit)

	api := r.Group("/api")
	api.Use(cors.New(s.corsConfig()))
	{
		api.GET("/tables", s.apiTables)
		api.GET("/tables/:table", s.apiRows)
		api.GET("/tables/:table/:id", s.apiRow)
		api.GET("/tables/:table/:id/links", s.apiLinks)
		api.DELETE("/tables/:table/:id", s.apiDelete)
		api.POST("/submit", s.apiSubmit)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "not found"})
			return
		}
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": "page not found"})
	})
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", s.cfg.PrincipalHeader, headerRequestID},
		ExposeHeaders: []string{headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.AllowOrigins) == 1 && s.cfg.AllowOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.cfg.AllowOrigins
	}
	return cfg
}

// envFrom returns the per-request Env set by the principal middleware.
func (s *Server) envFrom(c *gin.Context) *model.Env {
	if v, ok := c.Get(keyEnv); ok {
		if env, ok := v.(*model.Env); ok {
			return env
		}
	}
	return s.env
}

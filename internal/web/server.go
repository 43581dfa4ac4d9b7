// Package web serves the single-page lesson generator and its downloads.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReferenceSource supplies the reference blob for a run.
// *reference.Loader implements it.
type ReferenceSource interface {
	LoadOrEmpty(ctx context.Context, dir string) string
}

type Options struct {
	Pipeline     *generation.Pipeline
	Reference    ReferenceSource
	ReferenceDir string

	// Provider is shown in the page footer.
	Provider string

	ServiceName  string
	AllowOrigins []string
	Log          *logger.Logger
}

// Server holds the latest outcome for its single user. Generation runs
// synchronously inside the request; a second request while one is running
// is rejected.
type Server struct {
	opts   Options
	log    *logger.Logger
	engine *gin.Engine

	running sync.Mutex

	mu     sync.Mutex
	latest *generation.Outcome
	form   formValues
}

func New(opts Options) (*Server, error) {
	if opts.Pipeline == nil {
		return nil, errors.New("web: pipeline is required")
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "lessonkit"
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{opts: opts, log: opts.Log}
	s.engine = s.router(tmpl)
	return s, nil
}

func (s *Server) router(tmpl *template.Template) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(s.opts.ServiceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		return c.Request.URL.Path != "/healthz"
	})))
	r.Use(requestLogger(s.log))
	r.Use(corsMiddleware(s.opts.AllowOrigins))

	r.GET("/healthz", s.health)
	r.GET("/", s.index)
	r.POST("/generate", s.generateForm)
	r.POST("/reset", s.reset)
	r.GET("/download", s.download)
	r.GET("/documents/:name", s.document)

	api := r.Group("/api")
	{
		api.POST("/generate", s.generateAPI)
	}
	return r
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("web UI listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Latest returns the outcome currently held, if any.
func (s *Server) Latest() *generation.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Server) store(form formValues, out *generation.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
	s.latest = out
}

func (s *Server) snapshot() (formValues, *generation.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form, s.latest
}

func (s *Server) clear() {
	s.store(formValues{}, nil)
}

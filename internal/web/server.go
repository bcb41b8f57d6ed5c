// Package web serves the bug tracker and bookmark pages over HTTP.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log/v2"
	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/txn"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the web server.
type StartOpts struct {
	DB           *gorm.DB
	Port         int
	Out          io.Writer
	Logger       *log.Logger
	Policy       txn.Policy
	SessionTTL   time.Duration
	SecureCookie bool
}

func (o *StartOpts) applyDefaults() {
	if o.Port <= 0 {
		o.Port = 8080
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Policy.Logger == nil {
		o.Policy.Logger = o.Logger
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 30 * 24 * time.Hour
	}
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("web: db is required")
	}
	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	opts.applyDefaults()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Bookmarky running at http://localhost:%d\n", opts.Port)
	}
	opts.Logger.Info("listening", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with templates, middleware and routes.
func NewRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("web: db is required")
	}
	opts.applyDefaults()

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(opts.Logger))

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, opts)
	return router, nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Package web serves the browser chat UI and a small JSON API on top of a chatpod.Pod.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/boat-builder/chatpod"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie   = "chatpod_session"
	shutdownTimeout = 10 * time.Second
)

type Options struct {
	Addr         string
	AllowOrigins []string
	ModelName    string
	Logger       *slog.Logger
}

type Server struct {
	pod       *chatpod.Pod
	engine    *gin.Engine
	addr      string
	modelName string
	logger    *slog.Logger
}

func NewServer(pod *chatpod.Pod, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		pod:       pod,
		addr:      opts.Addr,
		modelName: opts.ModelName,
		logger:    logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(template.Must(template.New("index").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(indexHTML)))

	r.GET("/", s.index)
	r.POST("/search", s.search)
	r.POST("/clear", s.clear)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, Success("ok"))
	})

	api := r.Group("/api")
	api.GET("/exchanges", s.listExchanges)
	api.DELETE("/exchanges", s.clearExchanges)
	api.POST("/chat", s.chat)

	s.engine = r
	return s
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Web server listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("Web server shutdown")
	return nil
}

// session returns the chat session bound to the request's cookie, starting a
// new one when the cookie is missing or its session has expired.
func (s *Server) session(c *gin.Context) *chatpod.Session {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if sess, ok := s.pod.Session(id); ok {
			return sess
		}
	}
	sess := s.pod.NewSession()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

package oauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nestboard/internal/middleware"
)

// CallbackServer is the loopback endpoint a provider flow returns to. It
// serves exactly one callback: the first GET on the redirect path runs the
// handler, answers with a close-this-window page, and releases Run.
type CallbackServer struct {
	addr    string
	handler *RedirectHandler
	srv     *http.Server
	done    chan struct{}
}

// NewCallbackServer listens on addr (loopback only in any sane config) and
// feeds callbacks into h.
func NewCallbackServer(addr string, h *RedirectHandler) *CallbackServer {
	s := &CallbackServer{addr: addr, handler: h, done: make(chan struct{})}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Trace())
	r.GET("/oauth2/redirect", s.redirect)

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

func (s *CallbackServer) redirect(c *gin.Context) {
	params := ParamsFromQuery(c.Request.URL.Query())
	if err := s.handler.Handle(c.Request.Context(), params); err != nil {
		log.Printf("oauth: callback handling failed: %v", err)
		c.String(http.StatusInternalServerError, "Sign-in could not be completed. Return to the app and try again.")
		s.finish()
		return
	}
	c.String(http.StatusOK, "Sign-in received. You can close this window and return to the app.")
	s.finish()
}

func (s *CallbackServer) finish() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Run serves until the first callback lands or ctx is canceled, then shuts
// down gracefully.
func (s *CallbackServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
	case <-s.done:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("callback server shutdown: %w", err)
	}
	return nil
}

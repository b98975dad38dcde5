package web

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

//go:embed static
var staticFS embed.FS

// Server hosts the chart page and the /ws live-update endpoint.
type Server struct {
	hub  *Hub
	addr string
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{hub: hub, addr: addr}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/style.css", s.handleStatic("static/style.css", "text/css"))
	mux.HandleFunc("/script.js", s.handleStatic("static/script.js", "text/javascript"))
	mux.HandleFunc("/favicon.ico", s.handleStatic("static/favicon.svg", "image/svg+xml"))
	mux.HandleFunc("/ws", s.hub.ServeWS)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.handleStatic("static/index.html", "text/html; charset=utf-8")(w, r)
}

func (s *Server) handleStatic(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := staticFS.ReadFile(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

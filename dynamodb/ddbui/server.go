package ddbui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/acksell/ddbtable/dynamodb/ddbsdk"
	"github.com/acksell/ddbtable/dynamodb/table"
	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig configures the API server.
type ServerConfig struct {
	// Addr is the address to listen on, e.g. ":8080".
	Addr string
	// Logger receives request logs. Defaults to log.Default().
	Logger *log.Logger
	// BuildOptions apply to every CreateTable request the server builds.
	BuildOptions []tabledef.BuildOption
}

// Server is the catalog API HTTP server.
type Server struct {
	config     ServerConfig
	defs       []table.TableDefinition
	handler    http.Handler
	httpServer *http.Server
}

// NewServer creates a server for defs, backed by client.
func NewServer(config ServerConfig, client *ddbsdk.Client, defs []table.TableDefinition) *Server {
	if config.Logger == nil {
		config.Logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: config.Logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	NewAPIHandler(client, defs, config.BuildOptions...).RegisterRoutes(r)

	return &Server{
		config:  config,
		defs:    defs,
		handler: r,
	}
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, banner io.Writer) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()
	if banner != nil {
		s.printBanner(banner, ln.Addr())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) printBanner(w io.Writer, addr net.Addr) {
	fmt.Fprintf(w, "Serving table catalog API on http://%s/api\n", addr)
	for _, def := range s.defs {
		fmt.Fprintf(w, "  - %s (%d GSIs, %d LSIs)\n", def.Name, len(def.GSIs), len(def.LSIs))
	}
	fmt.Fprintln(w, "Press Ctrl+C to stop")
}

// corsMiddleware adds CORS headers for development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

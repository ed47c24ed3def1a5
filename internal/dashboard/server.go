// internal/dashboard/server.go
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tamzrod/counter-reconciler/internal/board"
	"github.com/tamzrod/counter-reconciler/internal/status"
)

// StatusFunc reports the monitor's current status and last cycle time.
type StatusFunc func() (status.Snapshot, time.Time)

// Config wires a Server.
type Config struct {
	Address  string
	Title    string
	Refresh  time.Duration // page auto-refresh; usually the poll interval
	Board    *board.Board
	Status   StatusFunc
	Metrics  http.Handler // nil disables /metrics
	Logger   zerolog.Logger
	Shutdown time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg    Config
	router *mux.Router
}

// New builds the router. It does not listen.
func New(cfg Config) (*Server, error) {
	if cfg.Board == nil {
		return nil, errors.New("dashboard: board required")
	}
	if cfg.Shutdown <= 0 {
		cfg.Shutdown = 5 * time.Second
	}

	s := &Server{cfg: cfg, router: mux.NewRouter()}

	s.router.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	s.router.HandleFunc("/rows", s.handleRows).Methods(http.MethodGet)
	s.router.HandleFunc("/api/records", s.handleRecords).Methods(http.MethodGet)
	s.router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		s.router.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	return s, nil
}

// Handler is the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on cfg.Address until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Str("address", ln.Addr().String()).Msg("dashboard listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
{{- if .Refresh}}
<meta http-equiv="refresh" content="{{.Refresh}}">
{{- end}}
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; font-family: monospace; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: right; }
.green-row { background-color: #c8f7c5; }
.red-row { background-color: #f7c5c5; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Table}}
</body>
</html>
`))

type pageView struct {
	Title   string
	Refresh int
	Table   template.HTML
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var table bytes.Buffer
	if err := s.cfg.Board.RenderTable(&table); err != nil {
		s.fail(w, err)
		return
	}

	title := s.cfg.Title
	if title == "" {
		title = "Reconciliation"
	}

	var out bytes.Buffer
	// Table is produced by the board's own html/template and already escaped.
	if err := page.Execute(&out, pageView{
		Title:   title,
		Refresh: int(s.cfg.Refresh / time.Second),
		Table:   template.HTML(table.String()),
	}); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out.Bytes())
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	var out bytes.Buffer
	if err := s.cfg.Board.Render(&out); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out.Bytes())
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Board.Records())
}

type statusView struct {
	Health         string     `json:"health"`
	HealthCode     uint16     `json:"health_code"`
	LastErrorCode  uint16     `json:"last_error_code"`
	SecondsInError uint16     `json:"seconds_in_error"`
	LastCycle      *time.Time `json:"last_cycle,omitempty"`
	Records        int        `json:"records"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	v := statusView{Health: status.HealthName(status.HealthUnknown), Records: s.cfg.Board.Len()}
	if s.cfg.Status != nil {
		snap, last := s.cfg.Status()
		v.Health = status.HealthName(snap.Health)
		v.HealthCode = snap.Health
		v.LastErrorCode = snap.LastErrorCode
		v.SecondsInError = snap.SecondsInError
		if !last.IsZero() {
			v.LastCycle = &last
		}
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.cfg.Logger.Error().Err(err).Msg("dashboard render failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

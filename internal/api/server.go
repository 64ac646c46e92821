package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"subprobe/internal/enum"
	"subprobe/internal/logging"
)

// Source exposes the live state of a running enumeration.
type Source interface {
	Results() *enum.Aggregator
	Stats() *enum.Stats
}

// Server publishes scan progress and results over HTTP while the scan runs.
type Server struct {
	domain string
	src    Source
	logger *logging.Logger
	srv    *http.Server
	ln     net.Listener
}

func NewServer(addr, domain string, src Source, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		domain: domain,
		src:    src,
		logger: logger,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/results", s.handleResults).Methods(http.MethodGet)
	router.HandleFunc("/api/results/{name}", s.handleResult).Methods(http.MethodGet)

	return router
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	s.ln = ln

	s.logger.Infof("Starting API server on %s", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("API server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type statusResponse struct {
	Domain string             `json:"domain"`
	Stats  enum.StatsSnapshot `json:"stats"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Domain: s.domain,
		Stats:  s.src.Stats().Snapshot(),
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	results := s.src.Results().Snapshot()
	if since := r.URL.Query().Get("since"); since != "" {
		offset, err := strconv.Atoi(since)
		if err != nil || offset < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid since parameter"})
			return
		}
		if offset > len(results) {
			offset = len(results)
		}
		results = results[offset:]
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	for _, res := range s.src.Results().Snapshot() {
		if res.Subdomain == name {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

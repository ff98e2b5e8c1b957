package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/railoptima/railoptima/core/audit"
	"github.com/railoptima/railoptima/core/logger"
	"github.com/railoptima/railoptima/core/model"
)

// RunFunc executes one optimize+validate pass over the given records.
type RunFunc func(records []model.TrainRecord) ([]model.OptimizedRecord, audit.Report, error)

// Server is the mock REST surface over the schedule pipeline. It serves the
// loaded input, the latest optimized schedule and the latest validation
// report, and lets clients trigger a new run.
type Server struct {
	mu        sync.RWMutex
	trains    []model.TrainRecord
	optimized []model.OptimizedRecord
	report    *audit.Report

	run RunFunc
	log logger.Logger
}

// NewServer builds a Server seeded with the input schedule.
func NewServer(trains []model.TrainRecord, run RunFunc, log logger.Logger) *Server {
	return &Server{trains: trains, run: run, log: log}
}

// SetResult stores a pipeline result for serving.
func (s *Server) SetResult(optimized []model.OptimizedRecord, report audit.Report) {
	s.mu.Lock()
	s.optimized = optimized
	s.report = &report
	s.mu.Unlock()
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/trains", s.handleTrains)
	mux.HandleFunc("/api/schedule", s.handleSchedule)
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/optimize", s.handleOptimize)
	return mux
}

// Serve runs the API server until the context is canceled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("schedule API listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleTrains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	trains := s.trains
	s.mu.RUnlock()
	writeJSON(w, trains)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	optimized := s.optimized
	s.mu.RUnlock()
	if optimized == nil {
		http.Error(w, "no optimized schedule yet", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string][]model.OptimizedRecord{"schedule": optimized})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()
	if report == nil {
		http.Error(w, "no validation report yet", http.StatusNotFound)
		return
	}
	writeJSON(w, report)
}

// handleOptimize runs the pipeline over the posted records, or over the
// stored input schedule when the body is empty.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	records, err := s.requestRecords(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	optimized, report, err := s.run(records)
	if err != nil {
		s.log.Errorf("optimize request failed: %v", err)
		status := http.StatusUnprocessableEntity
		var verr *model.ValidationError
		var derr *model.DuplicateIDError
		if !errors.As(err, &verr) && !errors.As(err, &derr) {
			status = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), status)
		return
	}
	s.mu.Lock()
	s.trains = records
	s.optimized = optimized
	s.report = &report
	s.mu.Unlock()
	writeJSON(w, map[string]any{"schedule": optimized, "report": report})
}

func (s *Server) requestRecords(r *http.Request) ([]model.TrainRecord, error) {
	if r.ContentLength == 0 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.trains, nil
	}
	var records []model.TrainRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

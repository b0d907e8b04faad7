// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package httpapi exposes topic matching over HTTP.
//
//	POST /analyze  {"text": "...", "topics": ["..."]} -> {"topics": ["..."]}
//	GET  /healthz  -> {"status": "ok"}
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultRequestTimeout bounds a single analyze request.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultMaxBodyBytes bounds the request body.
	DefaultMaxBodyBytes int64 = 1 << 20
)

// Analyzer filters topics against a text.
type Analyzer interface {
	Analyze(ctx context.Context, text string, topics []string) ([]string, error)
}

type Server struct {
	analyzer       Analyzer
	requestTimeout time.Duration
	maxBodyBytes   int64
	logger         *slog.Logger

	mux    *http.ServeMux
	mu     sync.Mutex
	server *http.Server
}

type Option func(*Server)

// WithRequestTimeout sets the per-request deadline. Non-positive values keep the default.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.requestTimeout = timeout
		}
	}
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

func NewServer(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:       analyzer,
		requestTimeout: DefaultRequestTimeout,
		maxBodyBytes:   DefaultMaxBodyBytes,
		logger:         slog.Default(),
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "httpapi")
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("listening", "addr", l.Addr().String())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

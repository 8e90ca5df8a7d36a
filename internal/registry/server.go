// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/ironcore-dev/metal-hca/internal/api/registry"
)

// Server holds the HTTP server's state, including the systems store.
type Server struct {
	addr         string
	mux          *http.ServeMux
	systemsStore *sync.Map
	collector    *inventoryCollector
	log          logr.Logger
}

// NewServer initializes and returns a new Server instance. The inventory
// metrics are registered with reg and served from /metrics.
func NewServer(log logr.Logger, addr string, reg metrics.RegistererGatherer) (*Server, error) {
	store := &sync.Map{}
	collector := newInventoryCollector(store)
	if err := reg.Register(collector); err != nil {
		return nil, fmt.Errorf("failed to register inventory metrics: %w", err)
	}

	server := &Server{
		addr:         addr,
		mux:          http.NewServeMux(),
		systemsStore: store,
		collector:    collector,
		log:          log,
	}
	server.routes(reg)
	return server, nil
}

// routes registers the server's routes.
func (s *Server) routes(gatherer metrics.RegistererGatherer) {
	s.mux.HandleFunc("/register", s.registerHandler)
	s.mux.HandleFunc("/delete/", s.deleteHandler)
	s.mux.HandleFunc("/systems/", s.systemsHandler)
	s.mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// registerHandler handles the /register endpoint.
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is allowed", http.StatusMethodNotAllowed)
		return
	}

	var reg registry.RegistrationPayload
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if reg.SystemUUID == "" {
		http.Error(w, "systemUUID must not be empty", http.StatusBadRequest)
		return
	}

	s.systemsStore.Store(reg.SystemUUID, reg.Data)
	s.collector.registrations.Inc()
	s.log.Info("Registered system UUID", "uuid", reg.SystemUUID, "cards", len(reg.Data.HCAs))
	w.WriteHeader(http.StatusCreated)
}

// systemsHandler handles the /systems/{uuid} endpoint.
func (s *Server) systemsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is allowed", http.StatusMethodNotAllowed)
		return
	}

	uuid := r.URL.Path[len("/systems/"):]

	value, ok := s.systemsStore.Load(uuid)
	if !ok {
		s.log.Info("System not found", "uuid", uuid)
		http.NotFound(w, r)
		return
	}
	server, ok := value.(registry.Server)
	if !ok {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		s.log.Info("Error asserting type of system", "uuid", uuid)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(server); err != nil {
		http.Error(w, "Failed to encode result", http.StatusInternalServerError)
		s.log.Error(err, "Error encoding server")
	}
}

// deleteHandler handles the DELETE requests to remove a system by UUID.
func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	s.log.Info("Received delete request", "method", r.Method, "uri", r.RequestURI)

	if r.Method != http.MethodDelete {
		http.Error(w, "Only DELETE method is allowed", http.StatusMethodNotAllowed)
		return
	}

	uuid := r.URL.Path[len("/delete/"):]

	if _, loaded := s.systemsStore.LoadAndDelete(uuid); !loaded {
		http.NotFound(w, r)
		return
	}

	w.WriteHeader(http.StatusOK)
	s.log.Info("Deleted system UUID", "uuid", uuid)
}

// Start starts the server on the specified address and adds logging for key events.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting registry server", "address", s.addr)
	server := &http.Server{Addr: s.addr, Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP registry server ListenAndServe: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down registry server...")
		// ctx is done at this point, in-flight requests still get to finish
		if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
			return fmt.Errorf("HTTP server Shutdown: %w", err)
		}
		s.log.Info("Registry server gracefully stopped")
		return nil
	case err := <-errChan:
		if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
			s.log.Error(shutdownErr, "Error shutting down registry server")
		}
		return err
	}
}

// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/util/wait"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
	"github.com/ironcore-dev/metal-hca/internal/api/registry"
)

// Enumerator takes an adapter inventory of the host. *hca.Inventory satisfies it.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]hcaapi.PhysicalCard, error)
}

// Agent takes one inventory snapshot and registers it with the registry.
type Agent struct {
	SystemUUID  string
	RegistryURL string
	Duration    time.Duration
	Steps       int
	Server      *registry.Server // Pointer to Server for late initialization.
	inventory   Enumerator
	log         logr.Logger
}

// NewAgent creates a new Agent with the specified system UUID and registry URL.
// Registration is attempted up to steps times, starting with duration between attempts.
func NewAgent(log logr.Logger, inventory Enumerator, systemUUID, registryURL string, duration time.Duration, steps int) *Agent {
	return &Agent{
		log:         log,
		inventory:   inventory,
		SystemUUID:  systemUUID,
		RegistryURL: registryURL,
		Duration:    duration,
		Steps:       steps,
	}
}

// Init initializes the Agent's Server field with the adapter inventory.
func (a *Agent) Init(ctx context.Context) error {
	cards, err := a.inventory.Enumerate(logr.NewContext(ctx, a.log))
	if err != nil {
		return fmt.Errorf("failed to enumerate adapters: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		a.log.Error(err, "failed to get hostname")
	}

	a.Server = &registry.Server{
		Hostname: hostname,
		HCAs:     cards,
	}
	return nil
}

// Run registers the inventory once and returns.
func (a *Agent) Run(ctx context.Context) error {
	if a.Server == nil {
		if err := a.Init(ctx); err != nil {
			a.log.Error(err, "failed to initialize agent")
			return err
		}
	}

	a.log.Info("Registering server ...", "cards", len(a.Server.HCAs))
	if err := a.registerServer(ctx); err != nil {
		return fmt.Errorf("failed to register system %s at %s: %w", a.SystemUUID, a.RegistryURL, err)
	}
	a.log.Info("Server registered", "uuid", a.SystemUUID)
	return nil
}

// registerServer handles the server registration with exponential backoff on failure.
func (a *Agent) registerServer(ctx context.Context) error {
	payload := registry.RegistrationPayload{
		SystemUUID: a.SystemUUID,
		Data:       *a.Server,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return wait.ExponentialBackoffWithContext(
		ctx,
		wait.Backoff{
			Steps:    a.Steps,
			Duration: a.Duration,
			Factor:   2.0,
			Jitter:   0.1,
		},
		func(ctx context.Context) (bool, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.RegistryURL+"/register", bytes.NewReader(jsonData))
			if err != nil {
				return false, err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				a.log.Error(err, "failed to post registration data", "url", a.RegistryURL)
				return false, nil
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					a.log.Error(err, "failed to close response body")
				}
			}()

			if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
				a.log.Info("Registry rejected registration", "url", a.RegistryURL, "status", resp.StatusCode)
				return false, nil
			}
			return true, nil
		},
	)
}

// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
)

// Inventory correlates device-manager records with verbs port data.
type Inventory struct {
	verbs   Verbs
	catalog Catalog
}

// NewInventory creates an Inventory reading from the given sources.
func NewInventory(verbs Verbs, catalog Catalog) *Inventory {
	return &Inventory{verbs: verbs, catalog: catalog}
}

// Enumerate performs one full scan and returns the adapter cards of the host.
// The scan is not interruptible; ctx only carries the logger.
func (i *Inventory) Enumerate(ctx context.Context) ([]hcaapi.PhysicalCard, error) {
	log := logr.FromContextOrDiscard(ctx)

	ports, err := NewPortEnumerator(log, i.verbs).Enumerate()
	switch {
	case errors.Is(err, ErrNoDevices):
		log.V(1).Info("No verbs devices reported, continuing without port data")
		ports = map[string][]hcaapi.Port{}
	case err != nil:
		return nil, err
	}

	entries, err := ReadCatalog(i.catalog)
	if err != nil {
		return nil, err
	}

	cards := []hcaapi.PhysicalCard{}
	index := map[string]int{}
	for _, entry := range entries {
		device := entry.Device
		device.Ports = ports[device.Name]
		if device.Ports == nil {
			device.Ports = []hcaapi.Port{}
		}

		idx, ok := index[entry.Card.SubsystemID]
		if !ok {
			idx = len(cards)
			index[entry.Card.SubsystemID] = idx
			cards = append(cards, entry.Card)
		}
		card := &cards[idx]
		// the most recently processed device determines the card firmware and board id
		card.FirmwareVersion = device.FirmwareVersion
		card.BoardID = device.BoardID
		card.Devices = append(card.Devices, device)
	}

	log.V(1).Info("Enumerated adapters", "cards", len(cards), "devices", len(entries))
	return cards, nil
}

// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/utils/ptr"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
)

// PortEnumerator collects the ports of every verbs-visible device.
type PortEnumerator struct {
	verbs Verbs
	log   logr.Logger
}

// NewPortEnumerator creates a PortEnumerator on top of the given verbs implementation.
func NewPortEnumerator(log logr.Logger, verbs Verbs) *PortEnumerator {
	return &PortEnumerator{verbs: verbs, log: log}
}

// Enumerate returns the ports of all devices keyed by device name. Any failing
// query aborts the whole enumeration; partial results are never returned.
func (e *PortEnumerator) Enumerate() (map[string][]hcaapi.Port, error) {
	session, err := e.verbs.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			e.log.Error(err, "failed to release device list")
		}
	}()

	ports := make(map[string][]hcaapi.Port)
	for _, name := range session.Devices() {
		var devicePorts []hcaapi.Port
		if err := withContext(session, name, func(ctx DeviceContext) error {
			queried, err := queryPorts(name, ctx)
			devicePorts = queried
			return err
		}); err != nil {
			return nil, err
		}
		e.log.V(1).Info("Enumerated device ports", "device", name, "ports", len(devicePorts))
		ports[name] = devicePorts
	}
	return ports, nil
}

func queryPorts(name string, ctx DeviceContext) ([]hcaapi.Port, error) {
	attrs, err := ctx.QueryDevice()
	if err != nil {
		return nil, err
	}

	ports := make([]hcaapi.Port, 0, attrs.PortCount)
	// port numbers are 1-based; an int counter avoids wrapping at 255
	for i := 1; i <= int(attrs.PortCount); i++ {
		port, err := queryPort(name, ctx, uint8(i))
		if err != nil {
			return nil, err
		}
		ports = append(ports, port)
	}
	return ports, nil
}

func queryPort(name string, ctx DeviceContext, num uint8) (hcaapi.Port, error) {
	attrs, err := ctx.QueryPort(num)
	if err != nil {
		return hcaapi.Port{}, err
	}
	gid, err := ctx.QueryGID(num, 0)
	if err != nil {
		return hcaapi.Port{}, err
	}

	linkType, err := DecodeLinkType(attrs.LinkLayer)
	if err != nil {
		return hcaapi.Port{}, fmt.Errorf("device %s port %d: %w", name, num, err)
	}
	state, err := DecodePortState(attrs.State)
	if err != nil {
		return hcaapi.Port{}, fmt.Errorf("device %s port %d: %w", name, num, err)
	}
	physState, err := DecodePhysState(attrs.PhysState)
	if err != nil {
		return hcaapi.Port{}, fmt.Errorf("device %s port %d: %w", name, num, err)
	}

	port := hcaapi.Port{
		Number:        num,
		LID:           attrs.LID,
		LinkType:      linkType,
		State:         state,
		PhysicalState: physState,
	}
	if linkType == hcaapi.LinkTypeInfiniBand {
		port.GlobalID = ptr.To(FormatGlobalID(gid))
	}
	return port, nil
}

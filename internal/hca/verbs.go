// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"errors"
	"fmt"
)

// Verbs opens sessions against a verbs implementation.
type Verbs interface {
	// Open obtains the host's device list. It fails with ErrNoDevices if the
	// list is empty and with ErrHardwareUnavailable if it cannot be obtained.
	Open() (Session, error)
}

// Session holds a device list for the duration of one scan.
type Session interface {
	// Devices returns the device names in host order.
	Devices() []string
	OpenContext(name string) (DeviceContext, error)
	Close() error
}

// DeviceContext is an open device.
type DeviceContext interface {
	QueryDevice() (DeviceAttributes, error)
	QueryPort(port uint8) (PortAttributes, error)
	QueryGID(port uint8, index int) ([16]byte, error)
	Close() error
}

// DeviceAttributes is the subset of the device attributes the inventory uses.
type DeviceAttributes struct {
	FirmwareVersion string
	BoardID         string
	NodeGUID        uint64
	SystemImageGUID uint64
	VendorID        uint32
	VendorPartID    uint32
	HardwareVersion uint32
	PortCount       uint8
}

// PortAttributes carries the raw port codes as reported by the host.
type PortAttributes struct {
	State     uint32
	PhysState uint8
	LID       uint16
	LinkLayer uint8
}

// withContext opens the named device, runs fn and closes the device again.
// The close happens exactly once on every path and a close failure is joined
// into the returned error.
func withContext(session Session, name string, fn func(DeviceContext) error) (err error) {
	ctx, err := session.OpenContext(name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ctx.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close device %s: %w", name, closeErr))
		}
	}()
	return fn(ctx)
}

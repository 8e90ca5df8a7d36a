// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

//go:build linux && cgo

package catalog

import (
	"fmt"

	"github.com/jochenvg/go-udev"

	"github.com/ironcore-dev/metal-hca/internal/hca"
)

// Udev lists device records through libudev, including the properties
// imported from the hardware database.
type Udev struct{}

// NewUdev returns the libudev backed catalog.
func NewUdev() *Udev {
	return &Udev{}
}

func (*Udev) Records(subsystem string) ([]hca.Record, error) {
	u := udev.Udev{}
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem(subsystem); err != nil {
		return nil, fmt.Errorf("failed to match subsystem %s: %w", subsystem, err)
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, fmt.Errorf("failed to match initialized devices: %w", err)
	}
	devices, err := e.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s devices: %w", subsystem, err)
	}

	records := make([]hca.Record, 0, len(devices))
	for _, d := range devices {
		records = append(records, &udevRecord{device: d})
	}
	return records, nil
}

type udevRecord struct {
	device *udev.Device
}

func (r *udevRecord) SysName() string {
	return r.device.Sysname()
}

func (r *udevRecord) Property(name string) (string, bool) {
	value, ok := r.device.Properties()[name]
	return value, ok
}

func (r *udevRecord) Attribute(name string) (string, bool) {
	_, listed := r.device.Sysattrs()[name]
	return sysattrValue(listed, func() string { return r.device.SysattrValue(name) })
}

func (r *udevRecord) Parent() (hca.Record, bool) {
	parent := r.device.Parent()
	if parent == nil {
		return nil, false
	}
	return &udevRecord{device: parent}, true
}

// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux || !cgo

package catalog

import (
	"errors"

	"github.com/ironcore-dev/metal-hca/internal/hca"
)

type Udev struct{}

func NewUdev() *Udev {
	return &Udev{}
}

func (*Udev) Records(string) ([]hca.Record, error) {
	return nil, errors.New("built without libudev support, use the sysfs catalog")
}

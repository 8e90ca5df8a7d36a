// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux || !cgo

package verbs

import (
	"errors"

	"github.com/ironcore-dev/metal-hca/internal/hca"
)

// IBVerbs is unavailable on this platform; use the sysfs backend instead.
type IBVerbs struct{}

func NewIBVerbs() *IBVerbs {
	return &IBVerbs{}
}

func (*IBVerbs) Open() (hca.Session, error) {
	return nil, &hca.VerbsError{
		Kind: hca.ErrHardwareUnavailable,
		Op:   "ibv_get_device_list",
		Err:  errors.New("built without libibverbs support"),
	}
}

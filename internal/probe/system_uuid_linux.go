// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package probe

import (
	"fmt"

	"github.com/siderolabs/go-smbios/smbios"
)

// SystemUUID returns the system UUID from the SMBIOS system information.
func SystemUUID() (string, error) {
	sm, err := smbios.New()
	if err != nil {
		return "", fmt.Errorf("failed to read SMBIOS: %w", err)
	}
	return systemUUIDFrom(sm.SystemInformation.UUID)
}

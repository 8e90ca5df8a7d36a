// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"errors"
	"strings"
)

// systemUUIDFrom normalizes an SMBIOS UUID. Firmware that does not set one
// reports all zeros or all ones.
func systemUUIDFrom(raw string) (string, error) {
	uuid := strings.ToLower(strings.TrimSpace(raw))
	digits := strings.ReplaceAll(uuid, "-", "")
	if strings.Trim(digits, "0") == "" || strings.Trim(digits, "f") == "" {
		return "", errors.New("firmware reports no system UUID")
	}
	return uuid, nil
}

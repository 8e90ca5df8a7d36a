// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package catalog

// sysattrValue resolves a listed sysfs attribute through read. libudev
// reports a failed read as an empty value, so an empty value counts as
// missing.
func sysattrValue(listed bool, read func() string) (string, bool) {
	if !listed {
		return "", false
	}
	value := read()
	if value == "" {
		return "", false
	}
	return value, true
}

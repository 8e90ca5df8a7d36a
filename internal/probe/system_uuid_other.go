// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package probe

import "errors"

func SystemUUID() (string, error) {
	return "", errors.New("reading the system UUID is only supported on linux, pass it explicitly")
}

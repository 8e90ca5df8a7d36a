// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"github.com/ironcore-dev/metal-hca/internal/api/hca"
)

// Server represents a registered system and the adapters found on it.
type Server struct {
	Hostname string             `json:"hostname,omitempty"`
	HCAs     []hca.PhysicalCard `json:"hcas"`
}

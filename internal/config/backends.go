// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/ironcore-dev/metal-hca/internal/catalog"
	"github.com/ironcore-dev/metal-hca/internal/hca"
	"github.com/ironcore-dev/metal-hca/internal/verbs"
)

// NewVerbs returns the configured verbs backend.
func (c *Config) NewVerbs() (hca.Verbs, error) {
	switch c.Verbs {
	case VerbsIBVerbs:
		return verbs.NewIBVerbs(), nil
	case VerbsSysfs:
		return verbs.NewSysfs(c.SysfsRoot), nil
	}
	return nil, fmt.Errorf("unknown verbs backend %q", c.Verbs)
}

// NewCatalog returns the configured device-manager catalog. The sysfs
// catalog loads the PCI inventory once up front.
func (c *Config) NewCatalog() (hca.Catalog, error) {
	switch c.Catalog {
	case CatalogUdev:
		return catalog.NewUdev(), nil
	case CatalogSysfs:
		pci, err := catalog.NewPCIDatabase(c.SysfsRoot)
		if err != nil {
			return nil, err
		}
		return catalog.NewSysfs(c.SysfsRoot, pci), nil
	}
	return nil, fmt.Errorf("unknown catalog backend %q", c.Catalog)
}

// NewInventory wires the configured backends into an inventory.
func (c *Config) NewInventory() (*hca.Inventory, error) {
	v, err := c.NewVerbs()
	if err != nil {
		return nil, err
	}
	cat, err := c.NewCatalog()
	if err != nil {
		return nil, err
	}
	return hca.NewInventory(v, cat), nil
}

// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"strings"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
)

// Subsystem is the device-manager subsystem verbs devices are registered in.
const Subsystem = "infiniband"

// Device-manager property and attribute names.
const (
	PropertyName        = "NAME"
	PropertySubsystemID = "PCI_SUBSYS_ID"
	PropertySlotName    = "PCI_SLOT_NAME"
	PropertyModelName   = "ID_MODEL_FROM_DATABASE"
	PropertyVendorName  = "ID_VENDOR_FROM_DATABASE"

	AttributeVendor          = "vendor"
	AttributeNodeGUID        = "node_guid"
	AttributeNodeDescription = "node_desc"
	AttributeSystemImageGUID = "sys_image_guid"
	AttributeFirmwareVersion = "fw_ver"
	AttributeBoardID         = "board_id"
)

// Catalog enumerates device-manager records.
type Catalog interface {
	Records(subsystem string) ([]Record, error)
}

// Record is a single device known to the device manager.
type Record interface {
	SysName() string
	Property(name string) (string, bool)
	Attribute(name string) (string, bool)
	Parent() (Record, bool)
}

// CatalogEntry is one device-manager record read into the inventory model.
// The card fields describe the adapter the device belongs to.
type CatalogEntry struct {
	Card   hcaapi.PhysicalCard
	Device hcaapi.LogicalDevice
}

// ReadCatalog reads all verbs device records of the catalog. A missing
// required property or attribute fails the whole read.
func ReadCatalog(catalog Catalog) ([]CatalogEntry, error) {
	records, err := catalog.Records(Subsystem)
	if err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(records))
	for _, record := range records {
		entry, err := readEntry(record)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readEntry(record Record) (CatalogEntry, error) {
	r := &recordReader{record: record}

	card := hcaapi.PhysicalCard{
		SubsystemID: r.inheritedProperty(PropertySubsystemID),
		ModelName:   r.inheritedProperty(PropertyModelName),
		VendorName:  r.inheritedProperty(PropertyVendorName),
		VendorID:    r.inheritedAttribute(AttributeVendor),
	}
	device := hcaapi.LogicalDevice{
		Name:            r.property(PropertyName),
		NodeGUID:        r.attribute(AttributeNodeGUID),
		NodeDescription: r.attribute(AttributeNodeDescription),
		SystemImageGUID: r.attribute(AttributeSystemImageGUID),
		FirmwareVersion: r.attribute(AttributeFirmwareVersion),
		BoardID:         r.attribute(AttributeBoardID),
	}
	if parent, ok := record.Parent(); ok {
		pr := &recordReader{record: parent}
		device.PCISlotName = pr.property(PropertySlotName)
		if r.err == nil {
			r.err = pr.err
		}
	}
	if r.err != nil {
		return CatalogEntry{}, r.err
	}
	return CatalogEntry{Card: card, Device: device}, nil
}

// recordReader keeps the first error of a sequence of lookups.
type recordReader struct {
	record Record
	err    error
}

func (r *recordReader) property(name string) string {
	value, ok := r.record.Property(name)
	return r.check(ErrPropertyNotFound, name, value, ok)
}

func (r *recordReader) attribute(name string) string {
	value, ok := r.record.Attribute(name)
	return r.check(ErrAttributeNotFound, name, value, ok)
}

func (r *recordReader) inheritedProperty(name string) string {
	for record, ok := r.record, true; ok; record, ok = record.Parent() {
		if value, found := record.Property(name); found {
			return r.check(ErrPropertyNotFound, name, value, true)
		}
	}
	return r.check(ErrPropertyNotFound, name, "", false)
}

func (r *recordReader) inheritedAttribute(name string) string {
	for record, ok := r.record, true; ok; record, ok = record.Parent() {
		if value, found := record.Attribute(name); found {
			return r.check(ErrAttributeNotFound, name, value, true)
		}
	}
	return r.check(ErrAttributeNotFound, name, "", false)
}

func (r *recordReader) check(kind error, name, value string, ok bool) string {
	if r.err != nil {
		return ""
	}
	if !ok {
		r.err = &LookupError{Kind: kind, Record: r.record.SysName(), Name: name}
		return ""
	}
	value, err := ValidText(r.record.SysName()+" "+name, value)
	if err != nil {
		r.err = err
		return ""
	}
	return strings.TrimSpace(value)
}

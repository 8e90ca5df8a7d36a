// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaypipes/ghw"

	"github.com/ironcore-dev/metal-hca/internal/hca"
)

const (
	pathClass   = "class"
	pathDevices = "devices"
)

// PCIDatabase resolves PCI addresses to vendor and product names.
// *ghw.PCIInfo satisfies it.
type PCIDatabase interface {
	GetDevice(address string) *ghw.PCIDevice
}

// NewPCIDatabase loads the PCI inventory of the host whose sysfs is mounted at sysfsRoot.
func NewPCIDatabase(sysfsRoot string) (*ghw.PCIInfo, error) {
	pci, err := ghw.PCI(ghw.WithChroot(filepath.Dir(filepath.Clean(sysfsRoot))))
	if err != nil {
		return nil, fmt.Errorf("could not get PCI info: %w", err)
	}
	return pci, nil
}

// Sysfs builds device records from the sysfs device tree. Properties come
// from uevent files; PCI devices additionally get the vendor and model names
// udev would import from its hardware database.
type Sysfs struct {
	root string
	pci  PCIDatabase
}

// NewSysfs returns a Sysfs catalog reading below root. pci may be nil, in
// which case no database names are provided.
func NewSysfs(root string, pci PCIDatabase) *Sysfs {
	return &Sysfs{root: root, pci: pci}
}

func (s *Sysfs) Records(subsystem string) ([]hca.Record, error) {
	classDir := filepath.Join(s.root, pathClass, subsystem)
	entries, err := os.ReadDir(classDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []hca.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", classDir, err)
	}

	records := make([]hca.Record, 0, len(entries))
	for _, entry := range entries {
		path, err := filepath.EvalSymlinks(filepath.Join(classDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve device %s: %w", entry.Name(), err)
		}
		record, err := s.record(path)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Sysfs) record(path string) (*sysfsRecord, error) {
	props, err := readUevent(filepath.Join(path, "uevent"))
	if err != nil {
		return nil, err
	}
	r := &sysfsRecord{catalog: s, path: path, properties: props}
	if r.subsystem() == "pci" && s.pci != nil {
		if dev := s.pci.GetDevice(r.SysName()); dev != nil {
			if dev.Vendor != nil && dev.Vendor.Name != "" {
				props[hca.PropertyVendorName] = dev.Vendor.Name
			}
			if dev.Product != nil && dev.Product.Name != "" {
				props[hca.PropertyModelName] = dev.Product.Name
			}
		}
	}
	return r, nil
}

// readUevent parses KEY=value lines.
func readUevent(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	props := map[string]string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if ok {
			props[key] = value
		}
	}
	return props, scanner.Err()
}

type sysfsRecord struct {
	catalog    *Sysfs
	path       string
	properties map[string]string
}

func (r *sysfsRecord) SysName() string {
	return filepath.Base(r.path)
}

func (r *sysfsRecord) subsystem() string {
	link, err := os.Readlink(filepath.Join(r.path, "subsystem"))
	if err != nil {
		return ""
	}
	return filepath.Base(link)
}

func (r *sysfsRecord) Property(name string) (string, bool) {
	value, ok := r.properties[name]
	return value, ok
}

func (r *sysfsRecord) Attribute(name string) (string, bool) {
	path := filepath.Join(r.path, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return strings.TrimRight(string(data), "\n"), true
}

// Parent returns the closest ancestor directory that is a device, i.e. has a
// uevent file, stopping at the devices root. A parent whose uevent cannot be
// read is returned without properties.
func (r *sysfsRecord) Parent() (hca.Record, bool) {
	root, err := filepath.EvalSymlinks(r.catalog.root)
	if err != nil {
		return nil, false
	}
	top := filepath.Join(root, pathDevices)
	for dir := filepath.Dir(r.path); strings.HasPrefix(dir, top+string(filepath.Separator)); dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "uevent")); err != nil {
			continue
		}
		parent, err := r.catalog.record(dir)
		if err != nil {
			return &sysfsRecord{catalog: r.catalog, path: dir, properties: map[string]string{}}, true
		}
		return parent, true
	}
	return nil, false
}
